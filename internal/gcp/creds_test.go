package gcp

import "testing"

func TestClientOptions(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	tests := []struct {
		name  string
		creds Credentials
		want  int
	}{
		{"default credentials", Credentials{}, 1},
		{"key file", Credentials{File: "/secrets/sa.json"}, 2},
		{"inline json", Credentials{JSON: `{"type":"service_account"}`}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(ClientOptions(tt.creds)); got != tt.want {
				t.Errorf("len(ClientOptions) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClientOptionsFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/env/sa.json")

	if got := len(ClientOptions(Credentials{})); got != 2 {
		t.Errorf("expected env credentials to add an option, got %d options", got)
	}
}
