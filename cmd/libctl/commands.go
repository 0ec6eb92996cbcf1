package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"libraryapi/internal/httpx"
	"libraryapi/internal/ingest"
	"libraryapi/internal/user"
)

func newRootCmd(open openBackend) *cobra.Command {
	root := &cobra.Command{
		Use:          "libctl",
		Short:        "Library maintenance commands",
		SilenceUsage: true,
	}
	root.AddCommand(
		newFinesCmd(open),
		newAdminCmd(open),
		newBooksCmd(open),
	)
	return root
}

func newFinesCmd(open openBackend) *cobra.Command {
	fines := &cobra.Command{Use: "fines", Short: "Manage overdue fines"}
	fines.AddCommand(&cobra.Command{
		Use:   "recalc",
		Short: "Recompute the fine of every overdue active borrowing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			updated, err := b.Fines().RecalculateFines(cmd.Context())
			if err != nil {
				return fmt.Errorf("recalculate fines: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d overdue borrowings\n", updated)
			return nil
		},
	})
	return fines
}

func newAdminCmd(open openBackend) *cobra.Command {
	admin := &cobra.Command{Use: "admin", Short: "Manage administrator accounts"}

	var username string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			req := user.CreateAdminReq{Username: strings.TrimSpace(username), Password: password}
			if details := httpx.ValidateStruct(req); len(details) > 0 {
				msgs := make([]string, 0, len(details))
				for _, d := range details {
					msgs = append(msgs, d.Message)
				}
				return fmt.Errorf("invalid admin: %s", strings.Join(msgs, "; "))
			}

			b, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			u, err := b.Admins().CreateAdmin(cmd.Context(), req.Username, req.Password)
			if errors.Is(err, user.ErrDuplicateEntry) {
				return fmt.Errorf("username %q is already taken", req.Username)
			}
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created administrator %s (%s)\n", u.Username, u.ID)
			return nil
		},
	}
	create.Flags().StringVar(&username, "username", "", "administrator username")
	_ = create.MarkFlagRequired("username")

	admin.AddCommand(create)
	return admin
}

// readPassword prompts twice without echo on a terminal. Otherwise it reads the first line of in.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		first, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		fmt.Fprint(prompt, "Repeat password: ")
		second, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		if string(first) != string(second) {
			return "", errors.New("passwords do not match")
		}
		return string(first), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type importFlags struct {
	file    string
	subject string
	genre   string
	limit   int
	copies  int
}

func newBooksCmd(open openBackend) *cobra.Command {
	books := &cobra.Command{Use: "books", Short: "Manage the catalog"}

	var f importFlags
	imp := &cobra.Command{
		Use:   "import",
		Short: "Import books from a CSV file or an Open Library subject",
		Long: "Import books from a CSV file (title,author,genre[,copies]) or from an Open Library subject search.\n" +
			"Books whose title and author already exist are skipped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (f.file == "") == (f.subject == "") {
				return errors.New("exactly one of --file or --openlibrary-subject is required")
			}
			if f.copies < 1 {
				return errors.New("--copies must be at least 1")
			}

			b, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			var (
				records  []ingest.Record
				rejected []ingest.RowError
				source   string
			)
			if f.file != "" {
				source = "csv:" + f.file
				fh, err := os.Open(f.file)
				if err != nil {
					return err
				}
				defer fh.Close()
				if records, rejected, err = ingest.ParseCSV(fh, f.copies); err != nil {
					return err
				}
			} else {
				source = "openlibrary:" + f.subject
				if records, err = ingest.FromOpenLibrary(cmd.Context(), b.Searcher(), f.subject, f.genre, f.limit, f.copies); err != nil {
					return err
				}
			}

			run, err := b.Importer().Import(cmd.Context(), source, records, rejected)
			if err != nil {
				return fmt.Errorf("import %s: %w", source, err)
			}
			printRun(cmd.OutOrStdout(), run)
			return nil
		},
	}
	imp.Flags().StringVar(&f.file, "file", "", "CSV file to import")
	imp.Flags().StringVar(&f.subject, "openlibrary-subject", "", "Open Library subject to search")
	imp.Flags().StringVar(&f.genre, "genre", "", "genre for Open Library books (defaults to the subject)")
	imp.Flags().IntVar(&f.limit, "limit", 20, "maximum Open Library results")
	imp.Flags().IntVar(&f.copies, "copies", 1, "copies per book when the source has none")

	books.AddCommand(imp)
	return books
}

func printRun(w io.Writer, run ingest.Run) {
	fmt.Fprintf(w, "import %s: %s\n", run.ID, run.Status)
	fmt.Fprintf(w, "  read %d, created %d, skipped %d, failed %d\n", run.Read, run.Created, run.Skipped, len(run.Failed))
	for _, e := range run.Failed {
		fmt.Fprintf(w, "  line %d: %s\n", e.Line, e.Message)
	}
}
