package sftp

import (
	"fmt"
	"io"
	"path"
	"sort"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// Client is a short-lived SFTP session against the game server host. Open a
// client per command invocation and close it when done; the game hosts drop
// idle connections aggressively.
type Client struct {
	conn *ssh.Client
	sftp *sftp.Client
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
}

type FileInfo struct {
	Name    string
	Size    int64
	IsDir   bool
	ModTime time.Time
}

func Connect(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("sftp host is not configured")
	}
	port := cfg.Port
	if port == 0 {
		port = 22
	}

	sshConfig := &ssh.ClientConfig{
		User: cfg.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(cfg.Password),
		},
		// Game server hosts rotate keys without notice; the credentials are
		// scoped to log directories, so host verification is skipped.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         10 * time.Second,
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, port)
	conn, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open sftp session: %w", err)
	}

	return &Client{conn: conn, sftp: client}, nil
}

func (c *Client) Close() error {
	sftpErr := c.sftp.Close()
	connErr := c.conn.Close()
	if sftpErr != nil {
		return sftpErr
	}
	return connErr
}

// List returns the entries of a remote directory, directories first, then
// files by name.
func (c *Client) List(dir string) ([]FileInfo, error) {
	entries, err := c.sftp.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	out := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		out = append(out, FileInfo{
			Name:    entry.Name(),
			Size:    entry.Size(),
			IsDir:   entry.IsDir(),
			ModTime: entry.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDir != out[j].IsDir {
			return out[i].IsDir
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Tail reads up to maxBytes from the end of a remote file. Log files grow
// into the gigabytes, so whole-file reads are off the table.
func (c *Client) Tail(filePath string, maxBytes int64) ([]byte, error) {
	file, err := c.sftp.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", filePath, err)
	}

	offset := int64(0)
	if stat.Size() > maxBytes {
		offset = stat.Size() - maxBytes
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek %s: %w", filePath, err)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}
	return data, nil
}

// Join builds a remote path rooted at base, refusing traversal outside it.
func Join(base, name string) (string, error) {
	joined := path.Clean(path.Join(base, name))
	if base != "" && !pathWithin(joined, base) {
		return "", fmt.Errorf("path %q escapes the log directory", name)
	}
	return joined, nil
}

func pathWithin(p, base string) bool {
	base = path.Clean(base)
	return p == base || len(p) > len(base) && p[:len(base)] == base && p[len(base)] == '/'
}
