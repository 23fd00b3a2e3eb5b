package main

import (
	"context"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"curseddiff/config"
	"curseddiff/logger"
	"curseddiff/text"
	"curseddiff/viewer"

	"github.com/neovim/go-client/nvim"
	"github.com/spf13/cobra"
)

const (
	idleTimeout      = 30 * time.Second
	idleRecheckDelay = 5 * time.Second
)

type Daemon struct {
	config      config.Config
	listener    net.Listener
	socketPath  string
	pidPath     string
	clientCount int64
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewDaemon(cfg config.Config) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())
	return &Daemon{
		config:     cfg,
		socketPath: config.SocketPath(),
		pidPath:    config.PidPath(),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (a *app) runDaemon(cmd *cobra.Command, args []string) error {
	return NewDaemon(a.cfg).Start()
}

func (d *Daemon) Start() error {
	d.writePidFile()
	defer d.removePidFile()

	if err := d.setupSocket(); err != nil {
		return err
	}
	defer d.cleanup()

	log.Printf("daemon listening on socket: %s", d.socketPath)

	d.setupShutdownHandling()
	go d.acceptConnections()
	go d.monitorIdleShutdown()

	<-d.ctx.Done()
	log.Printf("daemon shutting down...")
	return nil
}

func (d *Daemon) setupSocket() error {
	if err := os.MkdirAll(filepath.Dir(d.socketPath), 0o700); err != nil {
		return err
	}
	// A stale socket from a crashed daemon would make Listen fail
	os.Remove(d.socketPath)

	listener, err := net.Listen("unix", d.socketPath)
	if err != nil {
		return err
	}
	d.listener = listener
	return nil
}

func (d *Daemon) setupShutdownHandling() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Printf("received shutdown signal")
		d.Stop()
	}()
}

func (d *Daemon) acceptConnections() {
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			select {
			case <-d.ctx.Done():
				return
			default:
				log.Printf("error accepting connection: %v", err)
				continue
			}
		}

		atomic.AddInt64(&d.clientCount, 1)
		log.Printf("new client connected, total clients: %d", atomic.LoadInt64(&d.clientCount))
		go d.handleConnection(conn)
	}
}

func (d *Daemon) handleConnection(conn net.Conn) {
	defer conn.Close()
	defer func() {
		atomic.AddInt64(&d.clientCount, -1)
		log.Printf("client disconnected, remaining clients: %d", atomic.LoadInt64(&d.clientCount))
	}()

	n, err := nvim.New(conn, conn, conn, log.Printf)
	if err != nil {
		log.Printf("error creating nvim client: %v", err)
		return
	}

	if err := registerHandlers(n, d.config); err != nil {
		log.Printf("error registering handlers: %v", err)
		return
	}

	select {
	case <-d.ctx.Done():
		return
	default:
		if err := n.Serve(); err != nil && err != io.EOF {
			log.Printf("error serving connection: %v", err)
		}
	}
}

// registerHandlers exposes the diff pipeline to the editor:
//
//	rpcrequest(chan, 'curseddiff_align', old, new)
//	rpcrequest(chan, 'curseddiff_unified', nameA, nameB, old, new)
//
// Texts may arrive as strings, binary blobs or vim.NIL for a missing buffer.
func registerHandlers(n *nvim.Nvim, cfg config.Config) error {
	if err := n.RegisterHandler("curseddiff_align", func(_ *nvim.Nvim, oldValue, newValue any) (map[string]any, error) {
		return alignForLua(oldValue, newValue, cfg.ProximityThreshold), nil
	}); err != nil {
		return err
	}
	return n.RegisterHandler("curseddiff_unified", func(_ *nvim.Nvim, nameA, nameB string, oldValue, newValue any) (string, error) {
		return text.UnifiedDiff(nameA, nameB, text.AsText(oldValue), text.AsText(newValue), 3)
	})
}

// alignForLua runs one comparison and flattens it for the editor. A recovered
// failure comes back as an empty alignment in the no-differences state.
func alignForLua(oldValue, newValue any, proximity int) map[string]any {
	defer logger.Trace("alignForLua")()

	s := viewer.NewSession(proximity)
	defer s.Close()
	res := s.Compute(s.Begin(), text.AsText(oldValue), text.AsText(newValue))

	al := res.Alignment
	if al == nil {
		al = &text.Alignment{}
	}
	return al.ToLuaFormat(res.Groups,
		"state", res.State.String(),
		"status", string(res.Status),
	)
}

func (d *Daemon) monitorIdleShutdown() {
	idleTimer := time.NewTimer(idleTimeout)
	defer idleTimer.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-idleTimer.C:
			if atomic.LoadInt64(&d.clientCount) == 0 {
				log.Printf("no clients connected for timeout period, shutting down daemon")
				d.Stop()
				return
			}
		}

		if atomic.LoadInt64(&d.clientCount) == 0 {
			idleTimer.Reset(idleRecheckDelay)
		} else {
			idleTimer.Reset(idleTimeout)
		}
	}
}

func (d *Daemon) Stop() {
	if d.listener != nil {
		d.listener.Close()
	}
	d.cancel()
}

func (d *Daemon) cleanup() {
	os.Remove(d.socketPath)
}

func (d *Daemon) writePidFile() {
	if err := os.MkdirAll(filepath.Dir(d.pidPath), 0o700); err != nil {
		log.Printf("warning: could not create runtime directory: %v", err)
	}
	pid := os.Getpid()
	if err := os.WriteFile(d.pidPath, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		log.Printf("warning: could not write PID file: %v", err)
	}
	log.Printf("daemon started with PID %d", pid)
}

func (d *Daemon) removePidFile() {
	if err := os.Remove(d.pidPath); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not remove PID file: %v", err)
	}
}
