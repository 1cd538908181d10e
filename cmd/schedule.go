package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ivstih/interviewd/internal/apiclient"
	logging "github.com/ivstih/interviewd/internal/logger"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule an interview against a running interviewd server",
	Run: func(cmd *cobra.Command, _ []string) {
		schedule(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().String("server", "http://localhost:8080", "address of the interviewd server")
	scheduleCmd.Flags().String("candidate-email", "", "candidate email address")
	scheduleCmd.Flags().String("hr-email", "", "hr email address")
	scheduleCmd.Flags().String("date", "", "interview date, e.g. 2026-09-14")
	scheduleCmd.Flags().String("time", "", "interview time, e.g. 15:00")
	scheduleCmd.Flags().String("cv", "", "path to the candidate CV (.pdf, .docx or .txt)")
	scheduleCmd.Flags().String("jd", "", "path to the job description (.pdf, .docx or .txt)")
	scheduleCmd.Flags().BoolP("auto-aprove", "y", false, "do not ask for confirmation before scheduling")
}

func schedule(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logging.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	flags := cmd.Flags()
	serverAddr, _ := flags.GetString("server")
	candidateEmail, _ := flags.GetString("candidate-email")
	hrEmail, _ := flags.GetString("hr-email")
	date, _ := flags.GetString("date")
	timeOfDay, _ := flags.GetString("time")
	cvPath, _ := flags.GetString("cv")
	jdPath, _ := flags.GetString("jd")

	if candidateEmail == "" || hrEmail == "" || date == "" || timeOfDay == "" || cvPath == "" || jdPath == "" {
		logger.Fatal("candidate-email, hr-email, date, time, cv and jd flags are all required")
	}

	cvData, err := os.ReadFile(cvPath)
	if err != nil {
		logger.Fatal("reading cv file", zap.Error(err))
	}

	jdData, err := os.ReadFile(jdPath)
	if err != nil {
		logger.Fatal("reading job description file", zap.Error(err))
	}

	fmt.Printf("Candidate: %s\nHR:        %s\nWhen:      %s %s\nCV:        %s\nJD:        %s\nServer:    %s\n",
		candidateEmail, hrEmail, date, timeOfDay, cvPath, jdPath, serverAddr)

	if autoApprove, _ := flags.GetBool("auto-aprove"); !autoApprove {
		prompt := promptui.Select{
			Label: "Schedule this interview?",
			Items: []string{PromptYes, PromptNo},
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if action != PromptYes {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	client := apiclient.New(serverAddr, logger)

	resp, err := client.Schedule(ctx, apiclient.ScheduleUpload{
		CandidateEmail: candidateEmail,
		HREmail:        hrEmail,
		InterviewDate:  date,
		InterviewTime:  timeOfDay,
		CVPath:         cvPath,
		CVData:         cvData,
		JDPath:         jdPath,
		JDData:         jdData,
	})
	if err != nil {
		logger.Fatal("scheduling failed", zap.Error(err))
	}

	logger.Info("interview scheduled",
		zap.String(logging.FieldSession, resp.SessionID),
		zap.String("interview_link", resp.InterviewLink),
		zap.String("hr_portal_link", resp.HRPortalLink),
	)

	if resp.InterviewPlan != nil {
		for i, q := range resp.InterviewPlan.Questions {
			fmt.Printf("%d. %s\n", i+1, q.Question)
		}
	}
}
