package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nyayasetu-web/models"
	"nyayasetu-web/service"
	"nyayasetu-web/storage"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// cliSession stands in for the browser session; the terminal has one user
var cliSession = uuid.New()

func newAskCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the research agent a legal question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			research := service.NewResearchService(
				service.ResearchWithBackend(a.client),
				service.ResearchWithStrictParse(strict || a.cfg.StrictParse),
				service.ResearchWithLogger(a.logger),
			)
			res, err := research.Ask(cmd.Context(), service.AskRequest{
				SessionID: cliSession,
				Query:     strings.Join(args, " "),
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), a.renderer().exchange(res.Exchange))
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "report missing sections of the agent's reply")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var req service.SearchRequest
	var sortBy string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search court judgments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := service.NewCaseLawService(service.CaseLawWithBackend(a.client))
			req.SessionID = cliSession
			req.Query = strings.Join(args, " ")
			req.SortBy = models.SortOrder(sortBy)

			res, err := svc.Search(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), a.renderer().cases(res))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Court, "court", "", "supremecourt, highcourts, tribunals or supremecourtofindiaservicematters")
	cmd.Flags().StringVar(&req.FromDate, "from", "", "earliest judgment date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.ToDate, "to", "", "latest judgment date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&sortBy, "sort", string(models.SortRelevance), "relevance, date or citations")
	return cmd
}

func newCompareCmd(a *app) *cobra.Command {
	var subsection string
	cmd := &cobra.Command{
		Use:   "compare <IPC|BNS> <section>",
		Short: "Map a section between the IPC and the BNS",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := service.NewComparatorService(service.ComparatorWithBackend(a.client))
			cmp, err := svc.Compare(cmd.Context(), service.CompareRequest{
				SessionID:  cliSession,
				LawType:    models.LawType(args[0]),
				Section:    args[1],
				Subsection: subsection,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), a.renderer().comparison(cmp))
			return nil
		},
	}
	cmd.Flags().StringVar(&subsection, "sub", "", "BNS subsection")
	return cmd
}

func newUploadCmd(a *app) *cobra.Command {
	var (
		setID string
		reset bool
	)
	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload documents for question answering, one at a time",
		Long: `Upload sends each file to the document backend in order and prints a
line per file. The document set id printed at the end is what docquery needs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set := uuid.New()
			if setID != "" {
				parsed, err := uuid.Parse(setID)
				if err != nil {
					return fmt.Errorf("invalid --set: %w", err)
				}
				set = parsed
			}

			staging, err := os.MkdirTemp("", "nyaya-staging-")
			if err != nil {
				return err
			}
			defer os.RemoveAll(staging)
			st, err := storage.NewLocalStorage(staging)
			if err != nil {
				return err
			}

			files := make([]service.UploadFile, 0, len(args))
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				info, err := f.Stat()
				if err != nil {
					return err
				}
				files = append(files, service.UploadFile{
					Filename: filepath.Base(path),
					Size:     info.Size(),
					Body:     f,
				})
			}

			docs := service.NewDocumentService(
				service.DocumentWithBackend(a.client),
				service.DocumentWithStorage(st),
				service.DocumentWithMaxFileSize(a.cfg.MaxUploadBytes),
				service.DocumentWithLogger(a.logger),
				service.DocumentWithContext(cmd.Context()),
			)
			job, err := docs.StartUpload(cmd.Context(), service.StartUploadRequest{
				SessionID:     cliSession,
				DocumentSetID: set,
				Files:         files,
				Reset:         reset,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			r := a.renderer()
			reported := make([]bool, len(job.Steps))
			for {
				job, err = docs.Job(cliSession, job.ID)
				if err != nil {
					return err
				}
				for i, step := range job.Steps {
					if !reported[i] && (step.Status == models.UploadCompleted || step.Status == models.UploadFailed) {
						fmt.Fprintln(out, r.uploadStep(i+1, len(job.Steps), step))
						reported[i] = true
					}
				}
				if job.Done() {
					break
				}
				time.Sleep(100 * time.Millisecond)
			}
			docs.Wait()

			fmt.Fprintf(out, "\nDocument set: %s\n", set)
			if job.Status == models.UploadFailed {
				return fmt.Errorf("no document was ingested")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&setID, "set", "", "add to an existing document set instead of starting a new one")
	cmd.Flags().BoolVar(&reset, "reset", false, "clear the document set before the first file")
	return cmd
}

func newDocQueryCmd(a *app) *cobra.Command {
	var setID string
	cmd := &cobra.Command{
		Use:   "docquery <question>",
		Short: "Ask a question about uploaded documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := uuid.Parse(setID)
			if err != nil {
				return fmt.Errorf("--set must be the document set id printed by upload")
			}
			docs := service.NewDocumentService(service.DocumentWithBackend(a.client))
			answer, err := docs.Query(cmd.Context(), service.DocumentQueryRequest{
				SessionID:     cliSession,
				DocumentSetID: set,
				Question:      strings.Join(args, " "),
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), a.renderer().markdown(answer))
			return nil
		},
	}
	cmd.Flags().StringVar(&setID, "set", "", "document set id (required)")
	cmd.MarkFlagRequired("set")
	return cmd
}
