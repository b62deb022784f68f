package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"messenger/internal/domain"
	"messenger/internal/service"
)

func (s *Session) mainMenu(ctx context.Context) error {
	return s.menu(ctx, "MAIN MENU", "< EXIT", []menuItem{
		{"Create user", s.createUser},
		{"Log in", s.logIn},
	})
}

func (s *Session) createUser(ctx context.Context) (bool, error) {
	login, err := s.readLine("\tEnter user login: ")
	if err != nil {
		return false, err
	}
	password, err := s.readLine("\tEnter user password: ")
	if err != nil {
		return false, err
	}
	phone, err := s.readLine("\tEnter user phone: ")
	if err != nil {
		return false, err
	}
	_, err = s.svc.Identity.CreateUser(ctx, service.RegisterInput{
		Login:    login,
		Password: password,
		Phone:    strings.TrimSpace(phone),
	})
	if err != nil {
		s.fail(err)
		return false, nil
	}
	s.ok("User successfully created!")
	return false, nil
}

func (s *Session) logIn(ctx context.Context) (bool, error) {
	login, err := s.readLine("\tEnter user login: ")
	if err != nil {
		return false, err
	}
	password, err := s.readLine("\tEnter user password: ")
	if err != nil {
		return false, err
	}
	user, err := s.svc.Identity.Authenticate(ctx, login, password)
	if err != nil {
		s.fail(err)
		return false, nil
	}
	s.login = user.Login
	defer func() { s.login = "" }()
	s.ok("Welcome, %s!", user.Login)
	return false, s.userMenu(ctx)
}

func (s *Session) userMenu(ctx context.Context) error {
	return s.menu(ctx, "USER MENU", "Log out", []menuItem{
		{"Contact List Menu", func(ctx context.Context) (bool, error) {
			return false, s.listMenu(ctx, domain.ListContact)
		}},
		{"Blocked List Menu", func(ctx context.Context) (bool, error) {
			return false, s.listMenu(ctx, domain.ListBlock)
		}},
		{"Chat Menu", func(ctx context.Context) (bool, error) {
			return false, s.chatMenu(ctx)
		}},
		{"Delete Own Account", s.deleteAccount},
	})
}

func (s *Session) deleteAccount(ctx context.Context) (bool, error) {
	answer, err := s.readLine("\tType yes to delete your account: ")
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(answer) != "yes" {
		s.println("Account kept")
		return false, nil
	}
	if err := s.svc.Identity.DeleteAccount(ctx, s.login); err != nil {
		s.fail(err)
		return false, nil
	}
	s.ok("Account %s deleted", s.login)
	return true, nil
}

func (s *Session) listMenu(ctx context.Context, kind domain.ListKind) error {
	name := map[domain.ListKind]string{domain.ListContact: "contact", domain.ListBlock: "blocked"}[kind]
	return s.menu(ctx, strings.ToUpper(name)+" LIST MENU", "Back", []menuItem{
		{"Add to " + name + " list", func(ctx context.Context) (bool, error) {
			target, err := s.readLine(fmt.Sprintf("\tEnter login to add to %s list: ", name))
			if err != nil {
				return false, err
			}
			if err := s.svc.Lists.AddMember(ctx, s.login, kind, target); err != nil {
				s.fail(err)
				return false, nil
			}
			s.ok("%s is added to your %s list", target, name)
			return false, nil
		}},
		{"Delete from " + name + " list", func(ctx context.Context) (bool, error) {
			target, err := s.readLine(fmt.Sprintf("\tEnter login to remove from %s list: ", name))
			if err != nil {
				return false, err
			}
			if err := s.svc.Lists.RemoveMember(ctx, s.login, kind, target); err != nil {
				s.fail(err)
				return false, nil
			}
			s.ok("%s is removed from your %s list", target, name)
			return false, nil
		}},
		{"Browse " + name + " list", func(ctx context.Context) (bool, error) {
			members, err := s.svc.Lists.ListMembers(ctx, s.login, kind)
			if err != nil {
				s.fail(err)
				return false, nil
			}
			if len(members) == 0 {
				s.printf("Your %s list is empty\n", name)
				return false, nil
			}
			for _, m := range members {
				s.println(m)
			}
			return false, nil
		}},
	})
}

func (s *Session) chatMenu(ctx context.Context) error {
	return s.menu(ctx, "CHAT MENU", "Back", []menuItem{
		{"Create a chat", s.createChat},
		{"Chat viewer", s.chatViewer},
	})
}

func (s *Session) createChat(ctx context.Context) (bool, error) {
	s.println("Please add logins to include in the chat, one per line")
	s.println("End with a q")
	var members []string
	for {
		line, err := s.readLine("")
		if err != nil {
			return false, err
		}
		if line == "q" {
			break
		}
		members = append(members, line)
	}
	chat, err := s.svc.Chats.CreateChat(ctx, s.login, members)
	if err != nil {
		s.fail(err)
		return false, nil
	}
	s.ok("New %s chat %d has been created with %s", chat.Type, chat.ID, strings.Join(chat.Members, " "))
	return false, nil
}

func (s *Session) chatViewer(ctx context.Context) (bool, error) {
	chats, err := s.svc.Chats.ListChatsFor(ctx, s.login)
	if err != nil {
		s.fail(err)
		return false, nil
	}
	if len(chats) == 0 {
		s.println("You are not in any chat")
		return false, nil
	}

	table := newTable(s.out, "#", "Chat", "Type", "Owner", "Members")
	for i, c := range chats {
		table.Append([]string{
			fmt.Sprint(i),
			fmt.Sprint(c.ID),
			string(c.Type),
			c.InitSender,
			strings.Join(c.Members, " "),
		})
	}
	table.Render()

	line, err := s.readLine("Enter chat number to browse: ")
	if err != nil {
		return false, err
	}
	var n int
	if _, err := fmt.Sscan(line, &n); err != nil || n < 0 || n >= len(chats) {
		s.println("Your input is invalid!")
		return false, nil
	}
	return false, s.chatSession(ctx, chats[n].ID)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}
