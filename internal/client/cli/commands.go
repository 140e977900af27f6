package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/matchbox/internal/api"
	"github.com/dmitrijs2005/matchbox/internal/client/client"
	"github.com/dmitrijs2005/matchbox/internal/common"
)

var errUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}

// describe turns an error into a line for the user.
func describe(err error) string {
	switch {
	case errors.Is(err, errUsage):
		return err.Error()
	case errors.Is(err, client.ErrUnavailable):
		return "server is unavailable, try again later"
	case errors.Is(err, client.ErrNotSignedIn):
		return "please sign in first"
	case errors.Is(err, common.ErrorForbidden):
		return "not allowed: " + err.Error()
	case errors.Is(err, common.ErrorInvalidState):
		return "not possible right now: " + err.Error()
	case errors.Is(err, common.ErrorNotFound):
		return "not found: " + err.Error()
	case errors.Is(err, common.ErrorDeviceUnavailable):
		return "microphone unavailable: " + err.Error()
	default:
		return err.Error()
	}
}

func (a *App) SignIn(ctx context.Context, args []string) error {
	provider := "email"
	if len(args) > 0 {
		provider = args[0]
	}
	actor, err := a.authService.SignIn(ctx, provider)
	if err != nil {
		return err
	}
	a.println(fmt.Sprintf("Signed in as %s (%s)", actor.Name, actor.ID))
	return nil
}

func (a *App) Switch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("switch <actor>")
	}
	actor, err := a.authService.Switch(ctx, args[0])
	if err != nil {
		return err
	}
	a.println(fmt.Sprintf("Now acting as %s (%s)", actor.Name, actor.ID))
	return nil
}

func (a *App) Matches(ctx context.Context, _ []string) error {
	listings, err := a.matchService.Matches(ctx)
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		a.println("No more matches. Use 'reset' to see passed profiles again.")
		return nil
	}
	for _, l := range listings {
		a.println(fmt.Sprintf("%-4s %s, %d  %s", l.ID, l.Name, l.Age, l.Bio))
	}
	return nil
}

func (a *App) Pass(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("pass <listing>")
	}
	if err := a.matchService.Pass(ctx, args[0]); err != nil {
		return err
	}
	a.println("Passed", args[0])
	return nil
}

func (a *App) Save(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("save <listing>")
	}
	rec, created, err := a.matchService.Save(ctx, args[0])
	if err != nil {
		return err
	}
	if created {
		a.println(fmt.Sprintf("Saved %s, record %s", args[0], rec.ID))
	} else {
		a.println(fmt.Sprintf("Already saved %s, record %s", args[0], rec.ID))
	}
	return nil
}

func (a *App) Reset(ctx context.Context, _ []string) error {
	if err := a.matchService.ResetDeck(ctx); err != nil {
		return err
	}
	a.println("Deck reset")
	return nil
}

func (a *App) History(ctx context.Context, _ []string) error {
	items, err := a.matchService.History(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		a.println("No history yet")
		return nil
	}
	for _, it := range items {
		dir := "->"
		if it.Incoming {
			dir = "<-"
		}
		a.println(fmt.Sprintf("%s %s %s [%s] %d message(s)", it.Record.ID, dir, it.ListingName, it.Record.Status, len(it.Record.Messages)))
	}
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("show <record>")
	}
	rec, err := a.matchService.Record(ctx, args[0])
	if err != nil {
		return err
	}
	a.printRecord(rec)
	return nil
}

func (a *App) Reveal(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("reveal <record>")
	}
	rec, err := a.matchService.Reveal(ctx, args[0])
	if err != nil {
		return err
	}
	a.println(fmt.Sprintf("Revealed %s, reply window open until %s", rec.ID, formatTime(rec.RevealExpiresAt)))
	return nil
}

func (a *App) Replies(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("replies <record>")
	}
	replies, err := a.matchService.Replies(ctx, args[0])
	if err != nil {
		return err
	}
	for i, r := range replies {
		a.println(fmt.Sprintf("%d. %s", i+1, r))
	}
	return nil
}

func (a *App) Send(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("send <record> <text>")
	}
	rec, err := a.matchService.Send(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	a.println(fmt.Sprintf("Sent, %d message(s) in %s", len(rec.Messages), rec.ID))
	return nil
}

func (a *App) Record(ctx context.Context, args []string) error {
	recordID := ""
	if len(args) > 0 {
		recordID = args[0]
	}
	id, err := a.audioService.StartRecording(ctx, recordID)
	if err != nil {
		return err
	}
	a.println(fmt.Sprintf("Recording for %s, type 'stop' to attach", id))
	return nil
}

func (a *App) Stop(ctx context.Context, _ []string) error {
	rec, err := a.audioService.StopAndAttach(ctx)
	if err != nil {
		return err
	}
	if rec.Attachment == nil {
		return fmt.Errorf("%w: record %s has no attachment", common.ErrorInternal, rec.ID)
	}
	a.println(fmt.Sprintf("Attached %s to %s", rec.Attachment.Ref, rec.ID))
	return nil
}

func (a *App) Play(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("play <record>")
	}
	path, err := a.audioService.Download(ctx, args[0])
	if err != nil {
		return err
	}
	a.println("Saved clip to", path)
	return nil
}

func (a *App) printRecord(r api.Record) {
	a.println(fmt.Sprintf("Record %s: %s saved %s (owner %s)", r.ID, r.SavedBy, r.ListingID, r.OwnerID))
	a.println(fmt.Sprintf("  status: %s", r.Status))
	a.println(fmt.Sprintf("  save window until: %s", formatTime(r.ExpiresAt)))
	if r.Revealed {
		a.println(fmt.Sprintf("  revealed at %s, replies until %s", formatTime(r.RevealedAt), formatTime(r.RevealExpiresAt)))
	}
	for _, m := range r.Messages {
		a.println(fmt.Sprintf("  [%s] %s: %s", m.SentAt.Format(time.TimeOnly), m.SenderID, m.Text))
	}
	if r.Attachment != nil {
		a.println(fmt.Sprintf("  audio: %s", r.Attachment.Ref))
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}
