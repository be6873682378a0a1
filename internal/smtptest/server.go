// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

// Package smtptest provides an in-process SMTP server that stores the received messages
// in memory.
package smtptest

import (
	"errors"
	"io"
	"net"
	"strconv"
	"sync"

	"github.com/docker/go-units"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// MaxMessageSize caps the size of a single received message
const MaxMessageSize = 10 * units.MiB

// ErrInvalidCredentials is returned for a failed login.
var ErrInvalidCredentials = &smtp.SMTPError{
	Code:         535,
	EnhancedCode: smtp.EnhancedCode{5, 7, 8},
	Message:      "Authentication credentials invalid",
}

// Message is a message received by the Server.
type Message struct {
	From     string
	To       []string
	Data     []byte
	Username string
}

// Store retains the received messages. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	messages []Message
}

// Messages returns a copy of the received messages in arrival order.
func (s *Store) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	messages := make([]Message, len(s.messages))
	copy(messages, s.messages)
	return messages
}

func (s *Store) save(message Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
}

// Backend implements smtp.Backend.
type Backend struct {
	store *Store

	// Users maps usernames to passwords. If empty, any non-empty credentials are accepted.
	Users map[string]string

	// RequireAuth rejects transactions without a successful login.
	RequireAuth bool

	// RejectRcpt maps recipient addresses to the error returned for RCPT TO.
	RejectRcpt map[string]*smtp.SMTPError

	// RejectData is returned for DATA if set.
	RejectData *smtp.SMTPError
}

// Login implements smtp.Backend.
func (be *Backend) Login(_ *smtp.ConnectionState, username, password string) (smtp.Session, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	if len(be.Users) > 0 {
		if expected, ok := be.Users[username]; !ok || expected != password {
			return nil, ErrInvalidCredentials
		}
	}
	return &session{backend: be, username: username}, nil
}

// AnonymousLogin implements smtp.Backend.
func (be *Backend) AnonymousLogin(_ *smtp.ConnectionState) (smtp.Session, error) {
	if be.RequireAuth {
		return nil, smtp.ErrAuthRequired
	}
	return &session{backend: be}, nil
}

// session implements smtp.Session for a single connection.
type session struct {
	backend  *Backend
	from     string
	to       []string
	username string
}

// Reset implements smtp.Session.
func (s *session) Reset() {
	s.from = ""
	s.to = nil
}

// Logout implements smtp.Session.
func (s *session) Logout() error { return nil }

// Mail implements smtp.Session.
func (s *session) Mail(from string, _ smtp.MailOptions) error {
	s.from = from
	return nil
}

// Rcpt implements smtp.Session.
func (s *session) Rcpt(to string) error {
	if err, ok := s.backend.RejectRcpt[to]; ok {
		return err
	}
	s.to = append(s.to, to)
	return nil
}

// Data implements smtp.Session and stores the message.
func (s *session) Data(r io.Reader) error {
	if s.backend.RejectData != nil {
		return s.backend.RejectData
	}
	buf, err := io.ReadAll(io.LimitReader(r, MaxMessageSize))
	if err != nil {
		return err
	}
	to := make([]string, len(s.to))
	copy(to, s.to)
	s.backend.store.save(Message{From: s.from, To: to, Data: buf, Username: s.username})
	return nil
}

// Server is an SMTP server running in the same process as the tests. It listens on a
// random loopback port, allows authentication without TLS and supports the PLAIN and
// LOGIN mechanisms.
type Server struct {
	*smtp.Server
	*Store
	// Policy controls authentication and rejections of the Server
	Policy *Backend

	listener net.Listener
}

// NewServer returns a Server that is not yet started.
func NewServer() *Server {
	store := &Store{}
	backend := &Backend{store: store}
	srv := smtp.NewServer(backend)
	srv.Domain = "localhost"
	srv.AllowInsecureAuth = true
	srv.MaxMessageBytes = MaxMessageSize
	srv.EnableAuth(sasl.Login, func(conn *smtp.Conn) sasl.Server {
		return sasl.NewLoginServer(func(username, password string) error {
			state := conn.State()
			session, err := backend.Login(&state, username, password)
			if err != nil {
				return err
			}
			conn.SetSession(session)
			return nil
		})
	})
	return &Server{Server: srv, Store: store, Policy: backend}
}

// Start listens on 127.0.0.1 with a random port and serves connections in the
// background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	s.listener = listener
	s.Addr = listener.Addr().String()
	go func() {
		_ = s.Server.Serve(listener)
	}()
	return nil
}

// Host returns the host the Server listens on.
func (s *Server) Host() string {
	host, _, _ := net.SplitHostPort(s.Addr)
	return host
}

// Port returns the port the Server listens on.
func (s *Server) Port() int {
	_, port, _ := net.SplitHostPort(s.Addr)
	p, _ := strconv.Atoi(port)
	return p
}

// Close shuts the Server down.
func (s *Server) Close() error {
	if s.listener == nil {
		return errors.New("server not started")
	}
	err := s.Server.Close()
	_ = s.listener.Close()
	return err
}
