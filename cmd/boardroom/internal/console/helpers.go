package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tinyland-inc/boardroom/cmd/boardroom/internal"
	"github.com/tinyland-inc/boardroom/pkg/dispatch"
)

func consoleCmd(message string, debug bool) error {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	ctx := context.Background()
	target, err := internal.BuildTarget(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("error building entity: %w", err)
	}

	sessionKey := "console_" + uuid.NewString()

	if message != "" {
		resp, err := target.Entity().Run(ctx, message, sessionKey)
		if err != nil {
			return fmt.Errorf("error processing message: %w", err)
		}
		if resp != nil {
			fmt.Printf("\n%s %s\n", internal.Logo, resp.Content)
		}
		return nil
	}

	fmt.Printf("%s Chatting with %s (Ctrl+C to exit)\n\n", internal.Logo, target.EntityName())
	interactiveMode(target.Entity(), sessionKey)
	return nil
}

func interactiveMode(entity dispatch.Entity, sessionKey string) {
	prompt := fmt.Sprintf("%s You: ", internal.Logo)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     filepath.Join(os.TempDir(), ".boardroom_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("Error initializing readline: %v\n", err)
		fmt.Println("Falling back to simple input mode...")
		simpleInteractiveMode(entity, sessionKey)
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				fmt.Println("\nGoodbye!")
				return
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}
		if !handleLine(entity, sessionKey, line) {
			return
		}
	}
}

func simpleInteractiveMode(entity dispatch.Entity, sessionKey string) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("%s You: ", internal.Logo)
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Println("\nGoodbye!")
				return
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}
		if !handleLine(entity, sessionKey, line) {
			return
		}
	}
}

func handleLine(entity dispatch.Entity, sessionKey, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}
	if input == "exit" || input == "quit" {
		fmt.Println("Goodbye!")
		return false
	}

	resp, err := entity.Run(context.Background(), input, sessionKey)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return true
	}
	if resp != nil {
		fmt.Printf("\n%s %s\n\n", internal.Logo, resp.Content)
	}
	return true
}
