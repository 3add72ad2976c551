package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var clientBaseURL string

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Smoke-test a running dmcore HTTP server",
}

var clientCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a session against a running server",
	RunE:  runClientCreate,
}

var clientActCmd = &cobra.Command{
	Use:   "act [session-id] [input]",
	Short: "Send one player action to an existing session",
	Args:  cobra.ExactArgs(2),
	RunE:  runClientAct,
}

func init() {
	clientCmd.PersistentFlags().StringVar(&clientBaseURL, "addr", "http://localhost:8080", "dmcore server base URL")
	clientCmd.AddCommand(clientCreateCmd)
	clientCmd.AddCommand(clientActCmd)

	clientCreateCmd.Flags().String("name", "Kael", "player character name")
	clientCreateCmd.Flags().String("class", "Fighter", "player character class")
	clientCreateCmd.Flags().String("race", "Human", "player character race")
	clientCreateCmd.Flags().String("campaign", "New Campaign", "campaign name")
}

var httpClient = &http.Client{Timeout: 2 * time.Minute}

func runClientCreate(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("name")
	class, _ := cmd.Flags().GetString("class")
	race, _ := cmd.Flags().GetString("race")
	campaign, _ := cmd.Flags().GetString("campaign")

	body, err := json.Marshal(map[string]string{
		"name":          name,
		"class":         class,
		"race":          race,
		"campaign_name": campaign,
	})
	if err != nil {
		return err
	}

	resp, err := httpClient.Post(clientBaseURL+"/sessions", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func runClientAct(_ *cobra.Command, args []string) error {
	sessionID, input := args[0], args[1]

	body, err := json.Marshal(map[string]string{"input": input})
	if err != nil {
		return err
	}

	resp, err := httpClient.Post(clientBaseURL+"/sessions/"+sessionID+"/actions", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		fmt.Println(string(data))
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}
