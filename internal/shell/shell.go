// Package shell is the interactive, menu driven front end over the services.
// A Session owns its reader and writer; nothing is process-wide.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gookit/color"

	"messenger/internal/pagination"
	"messenger/internal/service"
)

// Services are the operations the shell drives.
type Services struct {
	Identity *service.IdentityService
	Lists    *service.ListService
	Chats    *service.ChatService
	Messages *service.MessageService
}

type Session struct {
	in       *bufio.Reader
	out      io.Writer
	svc      Services
	colors   bool
	pageSize int
	login    string
}

type Option func(*Session)

// WithColors toggles ANSI colors for prompts and errors.
func WithColors(on bool) Option {
	return func(s *Session) { s.colors = on }
}

// WithPageSize sets how many messages the chat viewer shows at a time.
func WithPageSize(n int) Option {
	return func(s *Session) { s.pageSize = n }
}

func New(in io.Reader, out io.Writer, svc Services, opts ...Option) *Session {
	s := &Session{
		in:       bufio.NewReader(in),
		out:      out,
		svc:      svc,
		pageSize: pagination.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run shows the main menu until the user exits or input ends.
func (s *Session) Run(ctx context.Context) error {
	s.greet()
	err := s.mainMenu(ctx)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	s.println("Bye!")
	return err
}

func (s *Session) greet() {
	banner := "\n*******************************************************\n" +
		"                      Messenger\n" +
		"*******************************************************\n"
	s.println(s.paint(banner, color.FgCyan))
}

func (s *Session) paint(text string, opts ...color.Color) string {
	if !s.colors {
		return text
	}
	return color.New(opts...).Render(text)
}

func (s *Session) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Session) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func (s *Session) ok(format string, a ...any) {
	s.println(s.paint(fmt.Sprintf(format, a...), color.FgGreen))
}

// fail reports an operation error and lets the menu continue.
func (s *Session) fail(err error) {
	s.println(s.paint("Error: "+err.Error(), color.FgRed))
}

func (s *Session) header(title string) {
	s.println()
	s.println(s.paint(title, color.Bold))
	s.println(strings.Repeat("-", len(title)))
}

// readLine prompts and returns the next line without its newline. The last
// line of input is returned even when it has no trailing newline.
func (s *Session) readLine(prompt string) (string, error) {
	s.printf("%s", prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readChoice keeps prompting until an integer is entered.
func (s *Session) readChoice() (int, error) {
	for {
		line, err := s.readLine("Please make your choice: ")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil {
			return n, nil
		}
		s.println("Your input is invalid!")
	}
}

func (s *Session) readID(prompt string) (int64, bool, error) {
	line, err := s.readLine(prompt)
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil || id <= 0 {
		s.println("Your input is invalid!")
		return 0, false, nil
	}
	return id, true, nil
}

type menuItem struct {
	label  string
	action func(ctx context.Context) (done bool, err error)
}

// menu renders items under title until an action reports done. The item at
// index i is chosen with i+1; 9 always leaves the menu.
func (s *Session) menu(ctx context.Context, title, back string, items []menuItem) error {
	for {
		s.header(title)
		for i, it := range items {
			s.printf("%d.  %s\n", i+1, it.label)
		}
		s.printf("9.  %s\n", back)

		choice, err := s.readChoice()
		if err != nil {
			return err
		}
		if choice == 9 {
			return nil
		}
		if choice < 1 || choice > len(items) {
			s.println("Unrecognized choice!")
			continue
		}
		done, err := items[choice-1].action(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}
