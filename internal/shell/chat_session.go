package shell

import (
	"context"
	"fmt"

	"messenger/internal/domain"
	"messenger/internal/pagination"
)

// chatSession is the menu for one chat picked in the chat viewer.
func (s *Session) chatSession(ctx context.Context, chatID int64) error {
	return s.menu(ctx, fmt.Sprintf("CHAT %d MENU", chatID), "Back", []menuItem{
		{"Display messages", func(ctx context.Context) (bool, error) {
			return false, s.displayMessages(ctx, chatID)
		}},
		{"Add message", func(ctx context.Context) (bool, error) {
			text, err := s.readLine("\tEnter a message: ")
			if err != nil {
				return false, err
			}
			msg, err := s.svc.Messages.Append(ctx, chatID, s.login, text)
			if err != nil {
				s.fail(err)
				return false, nil
			}
			s.ok("Message %d is added", msg.ID)
			return false, nil
		}},
		{"Edit message", func(ctx context.Context) (bool, error) {
			id, ok, err := s.readID("\tEnter message id: ")
			if err != nil || !ok {
				return false, err
			}
			text, err := s.readLine("\tEnter the new text: ")
			if err != nil {
				return false, err
			}
			if _, err := s.svc.Messages.Edit(ctx, s.login, chatID, id, text); err != nil {
				s.fail(err)
				return false, nil
			}
			s.ok("Message %d is edited", id)
			return false, nil
		}},
		{"Delete message", func(ctx context.Context) (bool, error) {
			id, ok, err := s.readID("\tEnter message id: ")
			if err != nil || !ok {
				return false, err
			}
			if err := s.svc.Messages.Delete(ctx, s.login, chatID, id); err != nil {
				s.fail(err)
				return false, nil
			}
			s.ok("Message %d is deleted", id)
			return false, nil
		}},
		{"Add user to chat", func(ctx context.Context) (bool, error) {
			target, err := s.readLine("\tEnter login to add to the chat: ")
			if err != nil {
				return false, err
			}
			if err := s.svc.Chats.AddMember(ctx, s.login, chatID, target); err != nil {
				s.fail(err)
				return false, nil
			}
			s.ok("%s is added to the chat", target)
			return false, nil
		}},
		{"Remove user from chat", func(ctx context.Context) (bool, error) {
			target, err := s.readLine("\tEnter login to remove from the chat: ")
			if err != nil {
				return false, err
			}
			if err := s.svc.Chats.RemoveMember(ctx, s.login, chatID, target); err != nil {
				s.fail(err)
				return false, nil
			}
			s.ok("%s is removed from the chat", target)
			return false, nil
		}},
		{"Delete chat", func(ctx context.Context) (bool, error) {
			if err := s.svc.Chats.DeleteChat(ctx, s.login, chatID); err != nil {
				s.fail(err)
				return false, nil
			}
			s.ok("Chat deleted")
			return true, nil
		}},
	})
}

// displayMessages pages through the chat oldest first. The history is read
// once, so paging shows a consistent snapshot.
func (s *Session) displayMessages(ctx context.Context, chatID int64) error {
	msgs, err := s.svc.Messages.History(ctx, s.login, chatID)
	if err != nil {
		s.fail(err)
		return nil
	}
	if len(msgs) == 0 {
		s.println("No messages yet")
		return nil
	}

	cursor := 0
	for {
		page, next, more, err := pagination.Page(msgs, cursor, s.pageSize)
		if err != nil {
			s.fail(err)
			return nil
		}
		s.renderMessages(page)
		s.printf("Showing %d-%d of %d\n", cursor+1, next, len(msgs))
		if !more {
			return nil
		}
		line, err := s.readLine("Enter n for the next page, anything else to stop: ")
		if err != nil {
			return err
		}
		if line != "n" {
			return nil
		}
		cursor = next
	}
}

func (s *Session) renderMessages(msgs []*domain.Message) {
	table := newTable(s.out, "Id", "Sent", "From", "Text")
	for _, m := range msgs {
		text := m.Text
		if m.EditedAt != nil {
			text += " (edited)"
		}
		table.Append([]string{
			fmt.Sprint(m.ID),
			m.SentAt.Local().Format("2006-01-02 15:04"),
			m.SenderLogin,
			text,
		})
	}
	table.Render()
}
