package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"syscall"
	"time"

	"curseddiff/config"
	"curseddiff/logger"

	"github.com/spf13/cobra"
)

type Client struct {
	socketPath string
	pidPath    string
	configPath string
}

func NewClient(configPath string) *Client {
	return &Client{
		socketPath: config.SocketPath(),
		pidPath:    config.PidPath(),
		configPath: configPath,
	}
}

func (a *app) runClient(cmd *cobra.Command, args []string) error {
	c := NewClient(a.configPath)
	if err := c.EnsureDaemonRunning(); err != nil {
		return fmt.Errorf("error ensuring daemon is running: %w", err)
	}
	if err := c.Connect(); err != nil {
		return fmt.Errorf("error connecting to daemon: %w", err)
	}
	return nil
}

// Connect relays stdin/stdout to the daemon socket until either side closes
func (c *Client) Connect() error {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		io.Copy(conn, os.Stdin)
		conn.Close()
	}()

	io.Copy(os.Stdout, conn)
	return nil
}

func (c *Client) EnsureDaemonRunning() error {
	if running, pid := daemonRunning(c.pidPath); running {
		logger.Debug("daemon already running with PID %d", pid)
		return nil
	}
	return c.startDaemon()
}

func (c *Client) startDaemon() error {
	logger.Debug("starting daemon...")

	exe, err := os.Executable()
	if err != nil {
		return err
	}
	argv := []string{exe, "daemon"}
	if c.configPath != "" {
		argv = append(argv, "--config", c.configPath)
	}

	_, err = os.StartProcess(exe, argv, &os.ProcAttr{
		Env:   os.Environ(),
		Files: []*os.File{nil, nil, nil},
	})
	if err != nil {
		return err
	}
	return c.waitForDaemon()
}

func (c *Client) waitForDaemon() error {
	for i := 0; i < 50; i++ {
		if running, _ := daemonRunning(c.pidPath); running {
			logger.Debug("daemon started successfully")
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("daemon failed to start within timeout")
}

// daemonRunning reads the pid file and checks the process with signal 0
func daemonRunning(pidPath string) (bool, int) {
	data, err := os.ReadFile(pidPath)
	if err != nil {
		return false, 0
	}
	pid, err := strconv.Atoi(string(data))
	if err != nil {
		return false, 0
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false, 0
	}
	return process.Signal(syscall.Signal(0)) == nil, pid
}
