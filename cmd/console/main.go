package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	baseURL string
	userID  string
	token   string
)

func newClient() *client {
	return &client{baseURL: baseURL, userID: userID, token: token, http: &http.Client{}}
}

var rootCmd = &cobra.Command{
	Use:   "console",
	Short: "Chat with the AI RMF policy assistant from a terminal",
	Long:  "Interactive client for the policy assistant. Type 'build policy' to start the questionnaire, 'exit' to leave it, 'checklist' to print it and 'quit' to close the console.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c := newClient()
		color.Cyan("AI RMF policy assistant (%s as %s)\n", baseURL, userID)

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for {
			color.New(color.FgYellow, color.Bold).Print("\nyou> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			switch line {
			case "":
				continue
			case "quit":
				return nil
			case "checklist":
				checklist, err := c.Checklist(ctx)
				if err != nil {
					color.Red("error: %v", err)
					continue
				}
				fmt.Println(checklist)
				continue
			}

			color.New(color.FgGreen).Print("assistant> ")
			sample, err := c.Send(ctx, line, os.Stdout)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				color.Red("\nerror: %v", err)
				continue
			}
			if sample != "" {
				color.New(color.FgHiBlack).Print("Sample answer: ")
				color.New(color.FgMagenta, color.Italic).Println(sample)
			}
		}
	},
}

var pdfCmd = &cobra.Command{
	Use:   "pdf <policy.md> <out.pdf>",
	Short: "Render a generated policy to PDF",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		policyMD, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "read policy")
		}

		var logo []byte
		if logoPath, _ := cmd.Flags().GetString("logo"); logoPath != "" {
			if logo, err = os.ReadFile(logoPath); err != nil {
				return eris.Wrap(err, "read logo")
			}
		}

		pdf, err := newClient().RenderPDF(cmd.Context(), string(policyMD), logo)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[1], pdf, 0o644); err != nil {
			return eris.Wrap(err, "write pdf")
		}
		color.Green("Wrote %s (%d bytes)", args[1], len(pdf))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8000", "server base URL")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "default_user", "user id sent as X-User-Id")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("RMF_TOKEN"), "bearer token when the server requires JWT")
	pdfCmd.Flags().String("logo", "", "PNG logo for the cover and header")
	rootCmd.AddCommand(pdfCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
