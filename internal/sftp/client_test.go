package sftp

import "testing"

func TestJoin(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		file    string
		want    string
		wantErr bool
	}{
		{name: "plain file", base: "/logs", file: "server.log", want: "/logs/server.log"},
		{name: "subdirectory", base: "/logs", file: "2026/08/kill.log", want: "/logs/2026/08/kill.log"},
		{name: "dot segments collapse", base: "/logs", file: "a/./b.log", want: "/logs/a/b.log"},
		{name: "traversal rejected", base: "/logs", file: "../etc/passwd", wantErr: true},
		{name: "nested traversal rejected", base: "/logs", file: "a/../../secret", wantErr: true},
		{name: "absolute-looking name stays inside", base: "/logs", file: "/server.log", want: "/logs/server.log"},
		{name: "empty base accepts anything", base: "", file: "anything.log", want: "anything.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Join(tt.base, tt.file)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Join(%q, %q) = %q, want error", tt.base, tt.file, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Join(%q, %q) = %v", tt.base, tt.file, err)
			}
			if got != tt.want {
				t.Errorf("Join(%q, %q) = %q, want %q", tt.base, tt.file, got, tt.want)
			}
		})
	}
}

func TestConnectRequiresHost(t *testing.T) {
	if _, err := Connect(Config{}); err == nil {
		t.Error("Connect with no host succeeded, want error")
	}
}
