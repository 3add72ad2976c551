package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dndai/dmcore/internal/agent"
	"github.com/dndai/dmcore/internal/llm/anthropic"
	"github.com/dndai/dmcore/internal/orchestrators/session"
	"github.com/dndai/dmcore/internal/pkg/randsrc"
)

var (
	playName       string
	playClass      string
	playRace       string
	playBackground string
	playCampaign   string
	playLocation   string
	playSeed       uint64
	playSavePath   string
	playResume     string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run a local REPL session against a live LLM, the closest in-repo equivalent to a headless test harness",
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playName, "name", "Kael", "player character name")
	playCmd.Flags().StringVar(&playClass, "class", "Fighter", "player character class")
	playCmd.Flags().StringVar(&playRace, "race", "Human", "player character race")
	playCmd.Flags().StringVar(&playBackground, "background", "Adventurer", "player character background")
	playCmd.Flags().StringVar(&playCampaign, "campaign", "New Campaign", "campaign name")
	playCmd.Flags().StringVar(&playLocation, "location", "", "starting location name (defaults to the world's own default)")
	playCmd.Flags().Uint64Var(&playSeed, "seed", 1, "dice roller seed, for reproducible sessions")
	playCmd.Flags().StringVar(&playSavePath, "save", "dmcore-save.json", "path to write the session on exit")
	playCmd.Flags().StringVar(&playResume, "resume", "", "path to a save file to resume instead of starting fresh")
}

func runPlay(_ *cobra.Command, _ []string) error {
	client, err := anthropic.New(anthropic.Config{APIKey: os.Getenv("ANTHROPIC_API_KEY")})
	if err != nil {
		return err
	}

	cfg := session.Config{
		Client:           client,
		Roller:           randsrc.NewSeeded(playSeed),
		CampaignName:     playCampaign,
		StartingLocation: playLocation,
		Agent:            agent.DefaultConfig(),
	}

	var sess *session.Session
	if playResume != "" {
		sess, err = session.Load(playResume, cfg)
		if err != nil {
			return fmt.Errorf("resume session: %w", err)
		}
		fmt.Printf("Resumed %q as %s the %s.\n", sess.World().CampaignName, sess.PlayerName(), sess.PlayerClass())
	} else {
		pc := buildCharacter(playName, playClass, playRace, playBackground)
		sess, err = session.NewWithCharacter(cfg, *pc)
		if err != nil {
			return fmt.Errorf("start session: %w", err)
		}
		fmt.Printf("Started %q as %s the %s.\n", sess.World().CampaignName, sess.PlayerName(), sess.PlayerClass())
	}

	defer func() {
		if err := sess.Save(playSavePath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to save session: %v\n", err)
			return
		}
		fmt.Printf("Saved session to %s\n", playSavePath)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println(`Type a player action and press enter. Type "quit" to exit and save.`)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := scanner.Text()
		if input == "quit" || input == "exit" {
			return nil
		}
		if input == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		resp, err := sess.PlayerActionStreaming(ctx, input, func(delta string) {
			fmt.Print(delta)
		})
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "\naction failed: %v\n", err)
			continue
		}
		if resp.Narrative == "" {
			fmt.Println()
		}
		current, maximum := sess.HPStatus()
		fmt.Printf("\n[HP %d/%d | combat=%v | your turn=%v]\n", current, maximum, resp.InCombat, resp.IsPlayerTurn)
	}
}
