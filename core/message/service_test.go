package message_test

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/message"
	"github.com/trezcool/elimu/core/user"
	inmemdb "github.com/trezcool/elimu/storage/database/inmem"
	testutil "github.com/trezcool/elimu/tests"
)

func newSetup(t *testing.T) (*message.Service, user.Repository) {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	usrRepo := inmemdb.NewUserRepository(db)
	svc := message.NewService(inmemdb.NewMessageRepository(db), user.NewService(usrRepo))
	return svc, usrRepo
}

func TestService_Send(t *testing.T) {
	svc, usrRepo := newSetup(t)

	neema := testutil.CreateUser(t, usrRepo, "Neema", "Okafor", "neema@test.cd", "", user.RoleStudent, user.StatusActive)
	jabari := testutil.CreateUser(t, usrRepo, "Jabari", "Mwangi", "jabari@test.cd", "", user.RoleTeacher, user.StatusActive)

	msg, err := svc.Send(neema.ID, message.NewMessage{RecipientID: jabari.ID, Subject: "Question", Body: "About lesson 2..."})
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if msg.SenderID != neema.ID || msg.RecipientID != jabari.ID || msg.IsRead() {
		t.Errorf("Send() = %+v; want unread from %q to %q", msg, neema.ID, jabari.ID)
	}

	// unknown recipient is a field error
	_, err = svc.Send(neema.ID, message.NewMessage{RecipientID: "ghost", Subject: "x", Body: "y"})
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	if !ok {
		t.Fatalf("Send(unknown recipient) error = %v; want ValidationError", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "recipient_id" {
		t.Errorf("Send(unknown recipient) fields = %+v; want one error on \"recipient_id\"", vErr.Fields)
	}

	inbox, err := svc.Inbox(jabari.ID)
	if err != nil {
		t.Fatalf("Inbox() failed: %v", err)
	}
	if len(inbox) != 1 || inbox[0].ID != msg.ID {
		t.Errorf("Inbox() = %+v; want the sent message", inbox)
	}
	sent, err := svc.Sent(neema.ID)
	if err != nil {
		t.Fatalf("Sent() failed: %v", err)
	}
	if len(sent) != 1 || sent[0].ID != msg.ID {
		t.Errorf("Sent() = %+v; want the sent message", sent)
	}
	if empty, _ := svc.Inbox(neema.ID); len(empty) != 0 {
		t.Errorf("Inbox(sender) = %+v; want empty", empty)
	}
}

func TestService_MarkRead(t *testing.T) {
	svc, usrRepo := newSetup(t)

	neema := testutil.CreateUser(t, usrRepo, "Neema", "Okafor", "neema@test.cd", "", user.RoleStudent, user.StatusActive)
	jabari := testutil.CreateUser(t, usrRepo, "Jabari", "Mwangi", "jabari@test.cd", "", user.RoleTeacher, user.StatusActive)

	msg, err := svc.Send(neema.ID, message.NewMessage{RecipientID: jabari.ID, Subject: "Question", Body: "About lesson 2..."})
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}

	// only the recipient may mark it
	if _, err := svc.MarkRead(msg.ID, neema.ID); errors.Cause(err) != message.ErrNotFound {
		t.Errorf("MarkRead(sender) error = %v; want ErrNotFound", err)
	}

	read, err := svc.MarkRead(msg.ID, jabari.ID)
	if err != nil {
		t.Fatalf("MarkRead() failed: %v", err)
	}
	if read.ReadAt == nil {
		t.Fatal("MarkRead() did not stamp ReadAt")
	}
	firstRead := *read.ReadAt

	// marking again keeps the original stamp
	read, err = svc.MarkRead(msg.ID, jabari.ID)
	if err != nil {
		t.Fatalf("MarkRead(again) failed: %v", err)
	}
	if !read.ReadAt.Equal(firstRead) {
		t.Error("MarkRead(again) re-stamped ReadAt")
	}

	if _, err := svc.MarkRead("ghost", jabari.ID); errors.Cause(err) != message.ErrNotFound {
		t.Errorf("MarkRead(unknown) error = %v; want ErrNotFound", err)
	}
}
