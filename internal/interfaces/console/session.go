package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/weblarek/storefront/internal/application/storefront"
	"github.com/weblarek/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// Command errors
var (
	ErrUnknownCommand   = errors.New("неизвестная команда")
	ErrMissingArgument  = errors.New("не хватает аргументов")
	ErrNoSuchPosition   = errors.New("нет такой позиции")
	ErrNothingPreviewed = errors.New("сначала откройте товар")
)

// Command verbs
const (
	VerbHelp     = "help"
	VerbList     = "list"
	VerbReload   = "reload"
	VerbOpen     = "open"
	VerbBuy      = "buy"
	VerbAdd      = "add"
	VerbRemove   = "remove"
	VerbCart     = "cart"
	VerbCheckout = "checkout"
	VerbPay      = "pay"
	VerbAddress  = "address"
	VerbEmail    = "email"
	VerbPhone    = "phone"
	VerbDelivery = "delivery"
	VerbContacts = "contacts"
	VerbNext     = "next"
	VerbSubmit   = "submit"
	VerbClose    = "close"
	VerbQuit     = "quit"
)

// minArgs is the argument count each verb requires
var minArgs = map[string]int{
	VerbHelp:     0,
	VerbList:     0,
	VerbReload:   0,
	VerbOpen:     1,
	VerbBuy:      0,
	VerbAdd:      1,
	VerbRemove:   1,
	VerbCart:     0,
	VerbCheckout: 0,
	VerbPay:      1,
	VerbAddress:  1,
	VerbEmail:    1,
	VerbPhone:    1,
	VerbDelivery: 2,
	VerbContacts: 2,
	VerbNext:     0,
	VerbSubmit:   0,
	VerbClose:    0,
	VerbQuit:     0,
}

var aliases = map[string]string{
	"?":    VerbHelp,
	"ls":   VerbList,
	"rm":   VerbRemove,
	"exit": VerbQuit,
}

// Command is one parsed input line
type Command struct {
	Verb string
	Args []string
}

// rest joins the arguments from i on
func (c Command) rest(i int) string {
	return strings.Join(c.Args[i:], " ")
}

// ParseCommand parses a line. A blank line yields a zero Command.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, nil
	}

	verb := strings.ToLower(fields[0])
	if alias, ok := aliases[verb]; ok {
		verb = alias
	}
	need, ok := minArgs[verb]
	if !ok {
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}
	args := fields[1:]
	if len(args) < need {
		return Command{}, fmt.Errorf("%w: %s", ErrMissingArgument, verb)
	}
	return Command{Verb: verb, Args: args}, nil
}

// Session reads commands and turns them into intents published on the
// event loop
type Session struct {
	in       io.Reader
	renderer *Renderer
	bus      shared.EventPublisher
	exec     storefront.Executor
	logger   *zap.Logger
}

// NewSession creates a session reading commands from in
func NewSession(in io.Reader, renderer *Renderer, bus shared.EventPublisher, exec storefront.Executor, logger *zap.Logger) *Session {
	return &Session{
		in:       in,
		renderer: renderer,
		bus:      bus,
		exec:     exec,
		logger:   logger.Named("session"),
	}
}

// Run reads commands until the input ends, quit is entered or ctx is done.
// Commands run on the event loop in input order.
func (s *Session) Run(ctx context.Context) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			return err
		case line := <-lines:
			cmd, err := ParseCommand(line)
			if err != nil {
				s.exec.Post(func() { s.renderer.Notify(storefront.LevelWarning, err.Error()) })
				continue
			}
			switch cmd.Verb {
			case "":
				continue
			case VerbQuit:
				s.logger.Info("session ended by user")
				return nil
			}
			s.exec.Post(func() { s.dispatch(ctx, cmd) })
		}
	}
}

// dispatch runs on the event loop
func (s *Session) dispatch(ctx context.Context, cmd Command) {
	event, err := s.intent(cmd)
	if err != nil {
		s.renderer.Notify(storefront.LevelWarning, err.Error())
		return
	}
	if event == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish intent",
			zap.String("command", cmd.Verb),
			zap.Error(err),
		)
	}
}

// intent maps a command to the intent it emits. Commands handled by the
// renderer alone return a nil event.
func (s *Session) intent(cmd Command) (shared.DomainEvent, error) {
	switch cmd.Verb {
	case VerbHelp:
		s.renderer.Help()
		return nil, nil
	case VerbList:
		s.renderer.Gallery()
		return nil, nil
	case VerbReload:
		return storefront.NewCatalogReloadIntent(), nil
	case VerbOpen:
		id, err := s.renderer.ProductAt(cmd.Args[0])
		if err != nil {
			return nil, err
		}
		return storefront.NewProductOpenIntent(id), nil
	case VerbBuy:
		id, ok := s.renderer.Previewed()
		if !ok {
			return nil, ErrNothingPreviewed
		}
		return storefront.NewCartAddIntent(id), nil
	case VerbAdd:
		id, err := s.renderer.ProductAt(cmd.Args[0])
		if err != nil {
			return nil, err
		}
		return storefront.NewCartAddIntent(id), nil
	case VerbRemove:
		id, err := s.renderer.EntryAt(cmd.Args[0])
		if err != nil {
			return nil, err
		}
		return storefront.NewCartRemoveIntent(id), nil
	case VerbCart:
		return storefront.NewCartOpenIntent(), nil
	case VerbCheckout:
		return storefront.NewCheckoutStartIntent(), nil
	case VerbPay:
		return storefront.NewDraftEditIntent(storefront.FieldPayment, cmd.Args[0]), nil
	case VerbAddress:
		return storefront.NewDraftEditIntent(storefront.FieldAddress, cmd.rest(0)), nil
	case VerbEmail:
		return storefront.NewDraftEditIntent(storefront.FieldEmail, cmd.Args[0]), nil
	case VerbPhone:
		return storefront.NewDraftEditIntent(storefront.FieldPhone, cmd.rest(0)), nil
	case VerbDelivery:
		return storefront.NewDeliverySubmitIntent(cmd.Args[0], cmd.rest(1)), nil
	case VerbContacts:
		return storefront.NewContactsSubmitIntent(cmd.Args[0], cmd.rest(1)), nil
	case VerbNext:
		draft := s.renderer.Draft()
		return storefront.NewDeliverySubmitIntent("", draft.Address), nil
	case VerbSubmit:
		draft := s.renderer.Draft()
		return storefront.NewContactsSubmitIntent(draft.Email, draft.Phone), nil
	case VerbClose:
		return storefront.NewModalCloseIntent(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Verb)
	}
}
