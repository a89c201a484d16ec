package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(createFormCmd())
	rootCmd.AddCommand(getFormCmd())
	rootCmd.AddCommand(listFormsCmd())
	rootCmd.AddCommand(updateFormCmd())
	rootCmd.AddCommand(viewFormCmd())
	rootCmd.AddCommand(publishFormCmd())
	rootCmd.AddCommand(unpublishFormCmd())
	rootCmd.AddCommand(listVersionsCmd())
	rootCmd.AddCommand(deleteFormCmd())

	rootCmd.AddCommand(blockCmd)
	blockCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	blockCmd.AddCommand(addBlockCmd())
	blockCmd.AddCommand(removeBlocksCmd())
	blockCmd.AddCommand(moveBlockCmd())

	rootCmd.AddCommand(pubCmd)
	pubCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	pubCmd.AddCommand(getPageCmd())
	pubCmd.AddCommand(submitCmd())

	rootCmd.AddCommand(listSubmissionsCmd())
	rootCmd.AddCommand(getSubmissionCmd())
}

func createFormCmd() *cobra.Command {
	var title string

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a form",
		Example: "formdoc create -t <title>",
		Run: func(cmd *cobra.Command, args []string) {
			form, err := apiClient().CreateForm(context.Background(), title)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("form created with id: %s", form.ID)
		},
	}

	command.Flags().StringVarP(&title, "title", "t", "", "title of the form")
	command.Flags().SortFlags = false

	return command
}

func getFormCmd() *cobra.Command {
	var formID string

	var required = []string{"form-id"}

	command := &cobra.Command{
		Use:     "get",
		Short:   "get a form",
		Example: "formdoc get -f <form-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			form, err := apiClient().GetForm(context.Background(), formID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Published", "Updated At"})
			table.Append([]string{form.ID, strconv.FormatBool(form.Published), form.UpdatedAt.Format("2006-01-02 15:04:05")})
			table.Render()

			printField("Title", form.Title)
			printField("Content", string(form.Content))
		},
	}

	command.Flags().StringVarP(&formID, "form-id", "f", "", "form id (required)")

	command.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	command.Flags().SortFlags = false

	return command
}

func listFormsCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "list forms",
		Run: func(cmd *cobra.Command, args []string) {
			res, err := apiClient().ListForms(context.Background())
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Title", "Published", "Created At"})
			for _, form := range res.Forms {
				table.Append([]string{form.ID, form.Title, strconv.FormatBool(form.Published), form.CreatedAt.Format("2006-01-02 15:04:05")})
			}

			table.Render()

			fmt.Printf("total: %d\n", res.Total)
		},
	}

	return command
}

func updateFormCmd() *cobra.Command {
	var formID string
	var title string
	var content string

	var required = []string{"form-id"}

	command := &cobra.Command{
		Use:   "update",
		Short: "update a form",
		Long: `Update the draft of a form with the given id.

Published snapshots are never touched, publish again to ship the changes.
`,
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if title == "" && content == "" {
				color.Red("missing: --title or --content")
				return
			}

			client := apiClient()
			ctx := context.Background()

			// update title if provided
			if title != "" {
				if err := client.SaveTitle(ctx, formID, title); err != nil {
					logrus.Error(err)
					return
				}
			}

			// update content if provided
			if content != "" {
				if _, err := client.SaveContent(ctx, formID, json.RawMessage(content)); err != nil {
					logrus.Error(err)
					return
				}
			}

			color.Green("form updated")
		},
	}

	command.Flags().StringVarP(&formID, "form-id", "f", "", "form id (required)")
	command.Flags().StringVarP(&title, "title", "t", "", "title")
	command.Flags().StringVarP(&content, "content", "c", "", "content as json")

	command.Flags().SortFlags = false

	return command
}

func viewFormCmd() *cobra.Command {
	var formID string

	var required = []string{"form-id"}

	command := &cobra.Command{
		Use:     "view",
		Short:   "render the authoring view of a form",
		Example: "formdoc view -f <form-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			view, err := apiClient().GetFormView(context.Background(), formID)
			if err != nil {
				logrus.Error(err)
				return
			}

			printField("Title", view.Title)
			fmt.Println(view.HTML)
		},
	}

	command.Flags().StringVarP(&formID, "form-id", "f", "", "form id (required)")

	return command
}

func publishFormCmd() *cobra.Command {
	var formID string
	var version string

	var required = []string{"form-id"}

	command := &cobra.Command{
		Use:   "publish",
		Short: "publish a form",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if version != "" {
				if _, err := semver.NewVersion(version); err != nil {
					logrus.Error(err)
					return
				}
			}

			published, err := apiClient().PublishForm(context.Background(), formID, version)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Version"})
			table.Append([]string{published.ID, published.Version})
			table.Render()
		},
	}

	command.Flags().StringVarP(&formID, "form-id", "f", "", "form id to publish")
	command.Flags().StringVarP(&version, "version", "v", "", "version to publish as")
	command.Flags().SortFlags = false

	return command
}

func unpublishFormCmd() *cobra.Command {
	var formID string

	var required = []string{"form-id"}

	command := &cobra.Command{
		Use:   "unpublish",
		Short: "unpublish a form",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if err := apiClient().UnpublishForm(context.Background(), formID); err != nil {
				logrus.Error(err)
				return
			}

			color.Green("form unpublished")
		},
	}

	command.Flags().StringVarP(&formID, "form-id", "f", "", "form id to unpublish")

	return command
}

func listVersionsCmd() *cobra.Command {
	var formID string

	var required = []string{"form-id"}

	command := &cobra.Command{
		Use:   "versions",
		Short: "list published versions of a form",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			versions, err := apiClient().ListVersions(context.Background(), formID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Version", "Status"})
			for i, v := range versions {
				status := "retired"
				if !v.Unpublished {
					status = "live"
				}
				// versions arrive newest first
				if i == 0 && !v.Unpublished {
					table.Append([]string{v.Version + " (latest)", status})
				} else {
					table.Append([]string{fmt.Sprintf("%-11s", v.Version), status})
				}
			}

			table.Render()
		},
	}

	command.Flags().StringVarP(&formID, "form-id", "f", "", "form id to list versions")

	return command
}

func deleteFormCmd() *cobra.Command {
	var formID string

	var required = []string{"form-id"}

	command := &cobra.Command{
		Use:   "delete",
		Short: "delete a form",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if err := apiClient().DeleteForm(context.Background(), formID); err != nil {
				logrus.Error(err)
				return
			}

			color.Green("form deleted")
		},
	}

	command.Flags().StringVarP(&formID, "form-id", "f", "", "form id to delete")

	return command
}

var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "manage blocks of a form",
	Example: `  formdoc block add -f <form-id> -p <pos> -k <kind>
  formdoc block remove -f <form-id> --from <pos> --to <pos>
  formdoc block move -f <form-id> --from <pos> --drop <pos>`,
}

func addBlockCmd() *cobra.Command {
	var formID string
	var pos int
	var kind string

	var required = []string{"form-id", "kind"}

	command := &cobra.Command{
		Use:     "add",
		Short:   "insert a block into a form",
		Example: "formdoc block add -f <form-id> -p <pos> -k paragraph",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			tree, err := apiClient().InsertBlock(context.Background(), formID, pos, kind)
			if err != nil {
				logrus.Error(err)
				return
			}

			printField("Content", string(tree.Content))
		},
	}

	command.Flags().StringVarP(&formID, "form-id", "f", "", "form id (required)")
	command.Flags().IntVarP(&pos, "pos", "p", 0, "position to insert at")
	command.Flags().StringVarP(&kind, "kind", "k", "", "block kind (required)")
	command.Flags().SortFlags = false

	return command
}

func removeBlocksCmd() *cobra.Command {
	var formID string
	var from int
	var to int

	var required = []string{"form-id", "from", "to"}

	command := &cobra.Command{
		Use:     "remove",
		Short:   "remove the blocks in a range",
		Example: "formdoc block remove -f <form-id> --from <pos> --to <pos>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			tree, err := apiClient().DeleteBlocks(context.Background(), formID, from, to)
			if err != nil {
				logrus.Error(err)
				return
			}

			printField("Content", string(tree.Content))
		},
	}

	command.Flags().StringVarP(&formID, "form-id", "f", "", "form id (required)")
	command.Flags().IntVar(&from, "from", 0, "range start position")
	command.Flags().IntVar(&to, "to", 0, "range end position")
	command.Flags().SortFlags = false

	return command
}

func moveBlockCmd() *cobra.Command {
	var formID string
	var from int
	var drop int

	var required = []string{"form-id", "from", "drop"}

	command := &cobra.Command{
		Use:     "move",
		Short:   "move a block to a new position",
		Example: "formdoc block move -f <form-id> --from <pos> --drop <pos>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			tree, err := apiClient().MoveNode(context.Background(), formID, from, drop)
			if err != nil {
				logrus.Error(err)
				return
			}

			printField("Content", string(tree.Content))
		},
	}

	command.Flags().StringVarP(&formID, "form-id", "f", "", "form id (required)")
	command.Flags().IntVar(&from, "from", 0, "position of the block to move")
	command.Flags().IntVar(&drop, "drop", 0, "drop position")
	command.Flags().SortFlags = false

	return command
}

var pubCmd = &cobra.Command{
	Use:   "pub",
	Short: "interact with a published form as a respondent",
	Example: `  formdoc pub page -f <form-id> -p <page>
  formdoc pub submit -f <form-id> -a <id>=<value>`,
}

func getPageCmd() *cobra.Command {
	var formID string
	var page int

	var required = []string{"form-id"}

	command := &cobra.Command{
		Use:     "page",
		Short:   "render a page of a published form",
		Example: "formdoc pub page -f <form-id> -p 0",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			res, err := apiClient().GetPage(context.Background(), formID, page)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Title", "Page", "Pages", "Has Next"})
			table.Append([]string{res.Title, strconv.Itoa(res.PageIndex), strconv.Itoa(res.PageCount), strconv.FormatBool(res.HasNext)})
			table.Render()

			fmt.Println(res.HTML)
		},
	}

	command.Flags().StringVarP(&formID, "form-id", "f", "", "form id (required)")
	command.Flags().IntVarP(&page, "page", "p", 0, "page index")
	command.Flags().SortFlags = false

	return command
}

func submitCmd() *cobra.Command {
	var formID string
	var submitterID string
	var rawAnswers []string

	var required = []string{"form-id"}

	command := &cobra.Command{
		Use:     "submit",
		Short:   "submit answers to a published form",
		Example: `formdoc pub submit -f <form-id> -a q-name=Ada -a q-topics=A -a q-topics=C`,
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			answers := make(map[string][]string)
			for _, raw := range rawAnswers {
				key, value, ok := strings.Cut(raw, "=")
				if !ok {
					color.Red("invalid answer: %s, expected format: <question-id>=<value>", raw)
					return
				}
				answers[key] = append(answers[key], value)
			}

			id, err := apiClient().Submit(context.Background(), formID, submitterID, answers)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("submission created with id: %s", id)
		},
	}

	command.Flags().StringVarP(&formID, "form-id", "f", "", "form id (required)")
	command.Flags().StringVarP(&submitterID, "submitter-id", "u", "", "submitter user id")
	command.Flags().StringArrayVarP(&rawAnswers, "answer", "a", nil, "answer as <question-id>=<value>, repeatable")
	command.Flags().SortFlags = false

	return command
}

func listSubmissionsCmd() *cobra.Command {
	var formID string

	var required = []string{"form-id"}

	command := &cobra.Command{
		Use:   "submissions",
		Short: "list submissions of a form",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			res, err := apiClient().ListSubmissions(context.Background(), formID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Version", "Submitter", "Created At"})
			for _, sub := range res.Submissions {
				submitter := sub.SubmitterID
				if submitter == "" {
					submitter = "anonymous"
				}
				table.Append([]string{sub.ID, sub.FormVersion, submitter, sub.CreatedAt.Format("2006-01-02 15:04:05")})
			}

			table.Render()

			fmt.Printf("total: %d\n", res.Total)
		},
	}

	command.Flags().StringVarP(&formID, "form-id", "f", "", "form id (required)")

	return command
}

func getSubmissionCmd() *cobra.Command {
	var submissionID string

	var required = []string{"submission-id"}

	command := &cobra.Command{
		Use:     "submission",
		Short:   "get a submission",
		Example: "formdoc submission -s <submission-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			sub, err := apiClient().GetSubmission(context.Background(), submissionID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Question", "Type", "Answer"})
			for _, answer := range sub.Answers {
				table.Append([]string{answer.Question, answer.Type, answer.Answer})
			}

			table.Render()

			printField("Form", sub.FormID+"@"+sub.FormVersion)
		},
	}

	command.Flags().StringVarP(&submissionID, "submission-id", "s", "", "submission id (required)")

	return command
}

func printField(label, value string) {
	color.Set(color.FgCyan)
	fmt.Print(label)
	color.Unset()
	fmt.Printf(": %s\n", value)
}

// checkMissingFlags checks if the required flags are set and returns ok if they are set
func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if cmd.Flag(required).Changed == false {
			missingFlags = append(missingFlags, required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) > 0 {
		var msg string
		for _, f := range missingFlags {
			msg += fmt.Sprintf("--%s ", f)
		}

		color.Red("missing: %s\n", msg)
		if len(providedFlags) > 0 {
			provided := strings.Join(providedFlags, " ")
			color.Green("provide: %s\n", provided)
		}

		cmd.Println("")

		cmd.Usage()

		return true
	}

	return false
}
