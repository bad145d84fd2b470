package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mbolis/quick-forms/export"
	"github.com/mbolis/quick-forms/forms"
	"github.com/mbolis/quick-forms/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var exportOutput string

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Work with forms from the command line",
}

var formImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Create a form from a YAML or JSON draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := readDraft(args[0])
		if err != nil {
			return err
		}

		_, db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		form, err := newEngine(db).CreateForm(cmd.Context(), localCredential(), draft)
		if err != nil {
			printFieldErrors(cmd.ErrOrStderr(), err)
			return err
		}
		cmd.Printf("Form %s created (version %d)\n", form.ID, form.Version)
		return nil
	},
}

var formListCmd = &cobra.Command{
	Use:   "list",
	Short: "List live forms",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		list, err := newEngine(db).ListForms(cmd.Context())
		if err != nil {
			return err
		}
		for _, f := range list {
			cmd.Printf("%s  v%-3d %s\n", f.ID, f.Version, f.Title)
		}
		return nil
	},
}

var formExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write a form's submissions as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		table, err := newEngine(db).Export(cmd.Context(), localCredential(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return export.WriteCSV(out, table)
	},
}

var formFillCmd = &cobra.Command{
	Use:   "fill <id>",
	Short: "Answer a form interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		sub, err := fill(cmd.Context(), newEngine(db), surveyPrompter{}, args[0])
		if err != nil {
			printFieldErrors(cmd.ErrOrStderr(), err)
			return err
		}
		cmd.Printf("Submission %s recorded\n", sub.ID)
		return nil
	},
}

func init() {
	formExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	formCmd.AddCommand(formImportCmd, formListCmd, formExportCmd, formFillCmd)
}

// readDraft decodes a draft file. YAML is a superset of JSON, so both are
// read by the YAML decoder.
func readDraft(path string) (model.FormDraft, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.FormDraft{}, err
	}
	var draft model.FormDraft
	if err := yaml.Unmarshal(raw, &draft); err != nil {
		return model.FormDraft{}, fmt.Errorf("%s: %w", path, err)
	}

	// run through the builder so blank names and orders get filled in
	built := model.NewDraft(draft.Title, draft.Description)
	for _, f := range draft.Fields {
		built = built.WithField(f)
	}
	return built, nil
}

func printFieldErrors(w io.Writer, err error) {
	red := color.New(color.FgRed)
	for _, fe := range forms.FieldErrors(err) {
		if fe.Field == "" {
			red.Fprintf(w, "  - %s\n", fe.Message)
		} else {
			red.Fprintf(w, "  - %s: %s\n", fe.Field, fe.Message)
		}
	}
}
