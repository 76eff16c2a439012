package database

import (
	"fmt"
	"io"
	"net"
	"os"

	"golang.org/x/crypto/ssh"

	"github.com/sanjuxAI/Data-Migration-Console/internal/runlog"
)

// setupTunnel establishes an SSH tunnel to the Oracle host and returns the
// local endpoint to connect to instead, plus a cleanup that tears the tunnel
// down.
func setupTunnel(cfg Config, log *runlog.Logger) (string, int, func(), error) {
	key, err := os.ReadFile(cfg.SSHKey)
	if err != nil {
		return "", 0, nil, fmt.Errorf("unable to read private key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return "", 0, nil, fmt.Errorf("unable to parse private key: %w", err)
	}

	sshConfig := &ssh.ClientConfig{
		User: cfg.SSHUser,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	sshClient, err := ssh.Dial("tcp", fmt.Sprintf("%s:%d", cfg.SSHHost, cfg.SSHPort), sshConfig)
	if err != nil {
		return "", 0, nil, fmt.Errorf("unable to connect to SSH server: %w", err)
	}

	listener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		sshClient.Close()
		return "", 0, nil, fmt.Errorf("unable to setup local listener: %w", err)
	}

	localPort := listener.Addr().(*net.TCPAddr).Port

	go func() {
		for {
			localConn, err := listener.Accept()
			if err != nil {
				return
			}

			remoteConn, err := sshClient.Dial("tcp", fmt.Sprintf("%s:%d", cfg.OracleHost, cfg.OraclePort))
			if err != nil {
				log.Warnf("SSH tunnel dial to %s:%d failed: %v", cfg.OracleHost, cfg.OraclePort, err)
				localConn.Close()
				return
			}

			go copyConn(localConn, remoteConn)
			go copyConn(remoteConn, localConn)
		}
	}()

	cleanup := func() {
		listener.Close()
		sshClient.Close()
	}

	return "localhost", localPort, cleanup, nil
}

func copyConn(dst, src net.Conn) {
	defer dst.Close()
	defer src.Close()
	io.Copy(dst, src)
}
