package fetcher

import (
	"context"
	"io"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const ftpTimeout = 30 * time.Second

// fetchFTP downloads an ftp:// URL to a temp file, preserving the remote
// extension so the format dispatch in Load still works. The returned cleanup
// removes the temp file.
func fetchFTP(ctx context.Context, rawURL string) (string, func(), error) {
	host, remote, err := parseFTPURL(rawURL)
	if err != nil {
		return "", nil, err
	}

	zap.L().Debug("ftp: connecting", zap.String("host", host), zap.String("path", remote))

	conn, err := ftp.Dial(host, ftp.DialWithTimeout(ftpTimeout), ftp.DialWithContext(ctx))
	if err != nil {
		return "", nil, eris.Wrap(err, "ftp: dial")
	}
	defer conn.Quit()

	if err := conn.Login("anonymous", "anonymous@"); err != nil {
		return "", nil, eris.Wrap(err, "ftp: login")
	}

	resp, err := conn.Retr(remote)
	if err != nil {
		return "", nil, eris.Wrap(err, "ftp: retrieve")
	}
	defer resp.Close()

	tmp, err := os.CreateTemp("", "leadgen-*"+filepath.Ext(remote))
	if err != nil {
		return "", nil, eris.Wrap(err, "ftp: create temp file")
	}

	if _, err := io.Copy(tmp, resp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, eris.Wrap(err, "ftp: download")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, eris.Wrap(err, "ftp: close temp file")
	}

	path := tmp.Name()
	return path, func() { os.Remove(path) }, nil
}

// parseFTPURL extracts host (with port) and path from an FTP URL.
func parseFTPURL(rawURL string) (host string, path string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", eris.Wrap(err, "ftp: parse url")
	}
	if u.Scheme != "ftp" {
		return "", "", eris.Errorf("ftp: expected ftp scheme, got %q", u.Scheme)
	}

	host = u.Host
	if _, _, splitErr := net.SplitHostPort(host); splitErr != nil {
		host = net.JoinHostPort(host, "21")
	}

	if u.Path == "" {
		return "", "", eris.New("ftp: empty path in url")
	}
	return host, u.Path, nil
}
