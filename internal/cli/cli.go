// Package cli runs the interactive roster menu over a line-oriented reader
// and writer.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/rapidrun/internal/adapters/presenter"
	service "github.com/okian/rapidrun/internal/app"
	"github.com/okian/rapidrun/internal/domain/model"
	"github.com/okian/rapidrun/pkg/logger"
)

// Menu codes.
const (
	CmdAdd       = "AHD"
	CmdUpdate    = "UHD"
	CmdDelete    = "DHD"
	CmdView      = "VHD"
	CmdSave      = "SHD"
	CmdSelect    = "SDD"
	CmdWinners   = "WHD"
	CmdVisualize = "VWH"
	CmdExit      = "ESC"
)

const banner = "************************************************"

var menu = []struct { //nolint:gochecknoglobals // fixed menu
	code, label string
}{
	{CmdAdd, "Add Horse Details"},
	{CmdUpdate, "Update Horse Details"},
	{CmdDelete, "Delete Horse Details"},
	{CmdView, "View the Registered Horses' Details Table (Sorted by Horse ID and Categorized by Group)"},
	{CmdSave, "Save Horse Details"},
	{CmdSelect, "Select Horses Randomly For the Final Round"},
	{CmdWinners, "Display Winning Horses' Details"},
	{CmdVisualize, "Visualize the Time of Winning Horses"},
	{CmdExit, "Exit the Program"},
}

// Runner drives a Session from console input.
type Runner struct {
	session *service.Session
	in      *bufio.Scanner
	out     io.Writer
	present *presenter.Presenter
	logger  logger.Logger
}

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithLogger sets a custom logger for the runner.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Runner reading commands from in and writing to out.
func New(session *service.Session, in io.Reader, out io.Writer, opts ...Option) *Runner {
	r := &Runner{
		session: session,
		in:      bufio.NewScanner(in),
		out:     out,
		present: presenter.New(out),
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run shows the menu and dispatches commands until ESC, end of input, or
// ctx is cancelled. Command failures are printed and the loop continues.
func (r *Runner) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.printMenu()
		choice, err := r.prompt("Please enter your choice: ")
		if errors.Is(err, io.EOF) {
			r.println("Thanks for Staying with Us. Good Bye!!!")
			return nil
		}
		if err != nil {
			return err
		}

		code := strings.ToUpper(strings.TrimSpace(choice))
		if code == CmdExit {
			r.println("Thanks for Staying with Us. Good Bye!!!")
			return nil
		}
		err = r.dispatch(ctx, code)
		if errors.Is(err, io.EOF) {
			r.println("Thanks for Staying with Us. Good Bye!!!")
			return nil
		}
		if err != nil {
			r.logger.Debug(ctx, "command failed", logger.String("command", code), logger.Error(err))
			r.printf("Error: %v\n", err)
		}
	}
}

func (r *Runner) dispatch(ctx context.Context, code string) error {
	switch code {
	case CmdAdd:
		return r.add(ctx)
	case CmdUpdate:
		return r.update(ctx)
	case CmdDelete:
		return r.remove(ctx)
	case CmdView:
		r.println("Horses in Ascending order by Horse ID and Categorized by Group: ")
		r.present.Roster(r.session.View(ctx))
	case CmdSave:
		if err := r.session.Save(ctx); err != nil {
			return err
		}
		r.println("Data saved successfully.")
	case CmdSelect:
		res, err := r.session.Select(ctx)
		if err != nil {
			return err
		}
		r.println("Horses randomly selected for the Final Round!!!")
		r.present.Selection(res)
	case CmdWinners:
		return r.winners(ctx)
	case CmdVisualize:
		return r.visualize(ctx)
	default:
		r.println("Invalid Choice. Please enter a valid option...")
	}
	return nil
}

func (r *Runner) add(ctx context.Context) error {
	id, err := r.prompt("Enter Horse ID: ")
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		r.println("Horse ID must not be empty!")
		return nil
	}
	if r.session.Exists(ctx, id) {
		r.println("Horse with the same Horse ID already exists!")
		return nil
	}
	fields, err := r.readFields("Enter ", "Enter Race Record Correctly: ")
	if err != nil {
		return err
	}
	rec := model.Record{ID: id}.WithFields(fields)
	if err := r.session.Add(ctx, rec); err != nil {
		if errors.Is(err, model.ErrDuplicateIdentifier) {
			r.println("Horse with the same Horse ID already exists!")
			return nil
		}
		return err
	}
	r.println("\nHorse Details Added Successfully!!!")
	return nil
}

func (r *Runner) update(ctx context.Context) error {
	id, err := r.prompt("Enter ID of the Horse to be updated: ")
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if !r.session.Exists(ctx, id) {
		r.println("Horse with the given ID Not Found!!!")
		return nil
	}
	fields, err := r.readFields("Enter Updated ", "Enter Updated Race Record: ")
	if err != nil {
		return err
	}
	if err := r.session.Update(ctx, id, fields); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			r.println("Horse with the given ID Not Found!!!")
			return nil
		}
		return err
	}
	r.println("Horse Details Updated Successfully!!!")
	return nil
}

func (r *Runner) remove(ctx context.Context) error {
	id, err := r.prompt("Enter ID of the Horse to be removed: ")
	if err != nil {
		return err
	}
	if err := r.session.Delete(ctx, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			r.println("Horse with the given ID Not Found!!!")
			return nil
		}
		return err
	}
	r.println("Horse Details Deleted Successfully!!!")
	return nil
}

// readFields prompts for every mutable field, re-prompting for the group
// until it is valid.
func (r *Runner) readFields(prefix, historyPrompt string) (model.Fields, error) {
	var f model.Fields
	steps := []struct {
		prompt string
		dst    *string
	}{
		{prefix + "Horse Name: ", &f.Name},
		{prefix + "Jockey Name: ", &f.Jockey},
		{prefix + "Age of the Horse: ", &f.Age},
		{prefix + "Breed of the Horse: ", &f.Breed},
		{historyPrompt, &f.History},
	}
	for _, s := range steps {
		v, err := r.prompt(s.prompt)
		if err != nil {
			return model.Fields{}, err
		}
		*s.dst = strings.TrimSpace(v)
	}
	group, err := r.readGroup(prefix)
	if err != nil {
		return model.Fields{}, err
	}
	f.Group = group
	return f, nil
}

func (r *Runner) readGroup(prefix string) (string, error) {
	groups := r.session.Groups()
	labels := groups.Labels()
	question := fmt.Sprintf("%sGroup of the Horse (One Group out of %s): ", prefix, listLabels(labels))
	for {
		v, err := r.prompt(question)
		if err != nil {
			return "", err
		}
		ok, valid := groups.Check(v)
		if ok {
			return model.NormalizeGroup(v), nil
		}
		r.printf("Invalid input. Please enter %s.\n", listLabels(valid))
	}
}

func (r *Runner) winners(ctx context.Context) error {
	standings, err := r.session.ShowWinners(ctx)
	if errors.Is(err, service.ErrNoSelectionYet) {
		r.printf("No horses selected yet. Choose %s first.\n", CmdSelect)
		return nil
	}
	if err != nil {
		r.printf("Error assigning random time: %v\n", err)
	}
	lo, hi := r.session.Range()
	r.printf("Random Time (between %d to %ds) was assigned for horses selected to the final round...\n\n", lo, hi)
	r.present.Results(standings)
	return nil
}

func (r *Runner) visualize(ctx context.Context) error {
	standings, err := r.session.VisualizeWinners(ctx)
	switch {
	case errors.Is(err, service.ErrNoSelectionYet):
		r.printf("No horses selected yet. Choose %s first.\n", CmdSelect)
		return nil
	case errors.Is(err, service.ErrNotTimedYet):
		r.printf("No finish times yet. Choose %s first.\n", CmdWinners)
		return nil
	case err != nil:
		return err
	}
	r.present.Visualized(standings, r.session.Visualize)
	return nil
}

func (r *Runner) printMenu() {
	r.printf("\n\n%s\n", banner)
	r.printf("\nWelcome to the Rapid Run Horse Management System\n\n")
	r.println(banner)
	for _, m := range menu {
		r.printf("%s - %s\n", m.code, m.label)
	}
	r.printf("%s\n\n", banner)
}

// prompt writes question and reads one line. It returns io.EOF when input
// is exhausted.
func (r *Runner) prompt(question string) (string, error) {
	fmt.Fprint(r.out, question)
	if !r.in.Scan() {
		if err := r.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return r.in.Text(), nil
}

func (r *Runner) println(s string) { fmt.Fprintln(r.out, s) }

func (r *Runner) printf(format string, args ...any) { fmt.Fprintf(r.out, format, args...) }

// listLabels renders labels as "A, B, C, or D".
func listLabels(labels []string) string {
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	case 2: //nolint:mnd // pair
		return labels[0] + " or " + labels[1]
	}
	return strings.Join(labels[:len(labels)-1], ", ") + ", or " + labels[len(labels)-1]
}
