// Copyright 2024 The vlc-rc Authors
// SPDX-License-Identifier: GPL-3.0-only

package vlc

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"
)

// prompt is the byte VLC's remote-control interface uses to ask for the
// next command.
const prompt = '>'

const (
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = time.Second
	defaultWriteTimeout = time.Second
)

// socket wraps the TCP connection to the player with buffered I/O and
// per-call deadlines. Replies are line oriented; multi-line replies end
// with the prompt byte.
type socket struct {
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer

	readTimeout  time.Duration
	writeTimeout time.Duration
}

func dialSocket(addr string, dialTimeout time.Duration) (*socket, error) {
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}

	s := &socket{
		conn:         conn,
		r:            bufio.NewReader(conn),
		w:            bufio.NewWriter(conn),
		readTimeout:  defaultReadTimeout,
		writeTimeout: defaultWriteTimeout,
	}

	// VLC greets a new client with a banner. Swallow it up to the first
	// prompt so the next read starts at a reply.
	if _, err := s.readUntilPrompt(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("read greeting: %w", err)
	}

	return s, nil
}

// writeLine sends a single newline-terminated command.
func (s *socket) writeLine(format string, args ...interface{}) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, format+"\n", args...); err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	return nil
}

// readLine reads one reply line and strips any prompt artifacts that
// bleed into it when lines are read back to back.
func (s *socket) readLine() (string, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
		return "", err
	}
	line, err := s.r.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read reply: %w", err)
	}
	return strings.TrimSpace(trimPrompt(line)), nil
}

// readUntilPrompt reads a reply block up to and including the next
// prompt byte, returning everything before it. Commands without a
// reply leave a bare prompt in the stream; empty blocks are skipped so
// the next real block is returned.
func (s *socket) readUntilPrompt() (string, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
		return "", err
	}
	for {
		block, err := s.r.ReadString(prompt)
		if err != nil {
			return "", fmt.Errorf("read reply: %w", err)
		}
		block = strings.TrimSuffix(block, string(prompt))
		if strings.TrimSpace(block) != "" {
			return block, nil
		}
	}
}

func (s *socket) close() error {
	return s.conn.Close()
}

// trimPrompt removes prompt bytes and blanks from the start of a reply
// line. The interface prints the prompt without a trailing newline, so
// it shows up glued to the front of whatever reply comes next.
func trimPrompt(line string) string {
	return strings.TrimLeft(line, string(prompt)+" ")
}
