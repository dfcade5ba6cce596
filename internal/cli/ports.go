package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/mlfs/internal/cli/formatter"
	"github.com/alexanderramin/mlfs/internal/service"
)

// printNotifier writes action results to the command output.
type printNotifier struct {
	w io.Writer
}

func (n printNotifier) Success(msg string) {
	fmt.Fprintln(n.w, formatter.StyleGreen.Render("✔ ")+msg)
}

func (n printNotifier) Failure(msg string) {
	fmt.Fprintln(n.w, formatter.StyleRed.Render("✖ ")+msg)
}

// printNavigator turns a destination into the command that opens it.
type printNavigator struct {
	w io.Writer
}

func (n printNavigator) Navigate(dest service.Destination) {
	if hint := destinationHint(dest); hint != "" {
		fmt.Fprintln(n.w, formatter.Dim("Next: "+hint))
	}
}

func destinationHint(dest service.Destination) string {
	use := commandFor(dest.Kind)
	if use == "" || dest.ID == nil || dest.View == "list" {
		return ""
	}
	if dest.View == "edit" {
		return fmt.Sprintf("mlfs %s edit %d", use, *dest.ID)
	}
	return fmt.Sprintf("mlfs %s view %d", use, *dest.ID)
}

func (a *App) confirmer() service.Confirmer {
	switch {
	case a.assumeYes:
		return service.AlwaysConfirm(true)
	case a.interactive():
		return huhConfirmer{theme: a.Theme}
	default:
		return service.AlwaysConfirm(false)
	}
}

// submission builds an orchestrator whose ports write to w.
func (a *App) submission(w io.Writer) *service.SubmissionService {
	return service.NewSubmissionService(a.Records, service.Ports{
		Notifier:  printNotifier{w: w},
		Navigator: printNavigator{w: w},
		Confirmer: a.confirmer(),
	}, a.Drafts, a.observers()...)
}

func (a *App) observers() []service.UseCaseObserver {
	if a.Observer == nil {
		return nil
	}
	return []service.UseCaseObserver{a.Observer}
}

// spin shows a spinner on w in interactive runs and returns its stop func.
func (a *App) spin(w io.Writer, msg string) func() {
	if !a.interactive() {
		return func() {}
	}
	return formatter.StartSpinner(w, msg)
}

// cancelledIsOK reports a declined confirmation and swallows it.
func cancelledIsOK(cmd *cobra.Command, err error) error {
	if errors.Is(err, service.ErrCancelled) {
		fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
		return nil
	}
	return err
}
