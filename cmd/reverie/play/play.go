// Package playcmder provides the play command: resume or start an
// interactive narrative session.
package playcmder

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/reveriegames/reverie/pkg/cliui"
	"github.com/reveriegames/reverie/pkg/config"
	"github.com/reveriegames/reverie/pkg/eventstream"
	eskafka "github.com/reveriegames/reverie/pkg/eventstream/kafka"
	"github.com/reveriegames/reverie/pkg/eventstream/nop"
	"github.com/reveriegames/reverie/pkg/handoff"
	"github.com/reveriegames/reverie/pkg/logger"
	"github.com/reveriegames/reverie/pkg/memory"
	"github.com/reveriegames/reverie/pkg/memory/store"
	"github.com/reveriegames/reverie/pkg/memory/store/cachefile"
	storehttp "github.com/reveriegames/reverie/pkg/memory/store/httpapi"
	"github.com/reveriegames/reverie/pkg/narrator"
	narratorhttp "github.com/reveriegames/reverie/pkg/narrator/httpapi"
	"github.com/reveriegames/reverie/pkg/narrator/scripted"
	"github.com/reveriegames/reverie/pkg/reconcile"
	"github.com/reveriegames/reverie/pkg/scene"
	"github.com/reveriegames/reverie/pkg/turn"
	"github.com/reveriegames/reverie/pkg/utils"
)

type playCommander struct {
	memoryTarget   string
	narratorTarget string
	narratorKind   string
	world          string
	sessionID      string
	offline        bool
	debug          bool

	eventsProvider string
	eventsBrokers  []string
	eventsTopic    string
}

const playLongDesc string = `Resume or start an interactive narrative session.

On startup the saved session memory is resolved once, preferring the local
cache, then any in-process handoff, then the memory service. A session with
no saved memory anywhere starts fresh; that is not an error.

During play, type the number of an option to choose it, or type any free-form
action. Each turn calls the narrator backend exactly once; if the call fails
the session state is untouched and you can retry by submitting again.

Commands:
  /status    Show session counters
  /exit      Leave the session (memory is already saved)

Examples:
  reverie play
  reverie play --world verdant-ruins
  reverie play --narrator scripted --offline`

const playShortDesc string = "Resume or start an interactive session"

func NewPlayCmd() *cobra.Command {
	cmder := &playCommander{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: playShortDesc,
		Long:  playLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("memory-target") {
				cmder.memoryTarget = cfg.Client.MemoryTarget
			}
			if !cmd.Flags().Changed("narrator-target") {
				cmder.narratorTarget = cfg.Client.NarratorTarget
			}
			if !cmd.Flags().Changed("narrator") {
				cmder.narratorKind = cfg.Client.Narrator
			}
			if !cmd.Flags().Changed("world") {
				cmder.world = cfg.Session.World
			}

			cmder.eventsProvider = cfg.EventStream.Provider
			cmder.eventsBrokers = cfg.EventStream.Brokers
			cmder.eventsTopic = cfg.EventStream.Topic

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(configDir)
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.memoryTarget, "memory-target", "m", defaults.Client.MemoryTarget, "Memory service URL")
	cmd.Flags().StringVarP(&cmder.narratorTarget, "narrator-target", "n", defaults.Client.NarratorTarget, "Narrator backend URL")
	cmd.Flags().StringVar(&cmder.narratorKind, "narrator", defaults.Client.Narrator, "Narrator backend kind (http, scripted)")
	cmd.Flags().StringVarP(&cmder.world, "world", "w", defaults.Session.World, "World to start in when no memory exists")
	cmd.Flags().StringVarP(&cmder.sessionID, "session", "s", "", "Session id (default: cached session, or a new one)")
	cmd.Flags().BoolVar(&cmder.offline, "offline", false, "Skip the memory service entirely")

	return cmd
}

func (c *playCommander) run(configDir string) error {
	log := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true), logger.WithWriter(os.Stderr))

	local, err := cachefile.NewDriver(configDir, log)
	if err != nil {
		return fmt.Errorf("opening cache slot: %w", err)
	}

	sessionID, err := c.resolveSessionID(local)
	if err != nil {
		return err
	}

	var remote store.Remote
	if !c.offline {
		remote = storehttp.NewClient(c.memoryTarget)
	}

	slot := handoff.NewSlot()
	if c.world != "" {
		slot.RequestWorld(c.world)
	}

	engine := reconcile.NewEngine(sessionID, local, remote, slot, log)
	outcome := engine.Resolve(context.Background())

	// The slot is the single channel for the requested world; a found
	// record carries its own world and wins.
	world := slot.World()
	if world == "" {
		world = c.world
	}

	fmt.Println()
	if outcome.Found {
		fmt.Printf("  %s Resuming session %s %s\n",
			cliui.SuccessMark,
			cliui.NameStyle.Render(utils.Truncate(sessionID, 16)),
			cliui.DimStyle.Render(fmt.Sprintf("(from %s, %d scenes)", outcome.Source, outcome.Record.ScenesCompleted)),
		)
	} else {
		fmt.Printf("  %s New session %s in %s\n",
			cliui.DimStyle.Render("●"),
			cliui.NameStyle.Render(utils.Truncate(sessionID, 16)),
			cliui.NameStyle.Render(world),
		)
	}
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type an option number or a free-form action. /exit to quit."))

	svc, err := c.createNarrator()
	if err != nil {
		return err
	}

	events, closeEvents := c.createPublisher()
	defer closeEvents()

	controller := turn.NewController(turn.Options{
		SessionID: sessionID,
		World:     world,
		Record:    outcome.Record,
		Narrator:  svc,
		Local:     local,
		Remote:    remote,
		Slot:      slot,
		Events:    events,
		Logger:    log,
	})

	c.watchCacheSlot(local, log)

	// Render the resumed scene before the first prompt.
	if outcome.Found {
		renderScene(outcome.Record.RebuildScene())
	}

	return c.loop(controller, log)
}

// resolveSessionID picks the session: the --session flag wins, then the
// cached record's id, then a freshly generated one.
func (c *playCommander) resolveSessionID(local store.Local) (string, error) {
	if c.sessionID != "" {
		return c.sessionID, nil
	}

	cached, err := local.Read()
	if err != nil {
		return "", fmt.Errorf("reading cache slot: %w", err)
	}
	if cached != nil && cached.SessionID != "" {
		return cached.SessionID, nil
	}

	return uuid.NewString(), nil
}

func (c *playCommander) createNarrator() (narrator.Service, error) {
	switch c.narratorKind {
	case "http":
		return narratorhttp.NewClient(c.narratorTarget), nil
	case "scripted":
		return scripted.NewService(), nil
	default:
		return nil, fmt.Errorf("unknown narrator kind %q (available: http, scripted)", c.narratorKind)
	}
}

func (c *playCommander) createPublisher() (eventstream.Publisher, func()) {
	if c.eventsProvider == "kafka" && len(c.eventsBrokers) > 0 {
		p := eskafka.NewPublisher(eskafka.Config{
			Brokers: c.eventsBrokers,
			Topic:   c.eventsTopic,
		})
		return p, func() { _ = p.Close() }
	}

	return nop.NewPublisher(), func() {}
}

// watchCacheSlot logs when another process rewrites the cache slot while
// this session is running. The running session stays authoritative; the
// watch exists so concurrent writes are visible in debug output.
func (c *playCommander) watchCacheSlot(local *cachefile.Driver, log *slog.Logger) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("cache slot watch unavailable", "error", err)
		return
	}

	if err := watcher.Add(local.Dir()); err != nil {
		log.Warn("cache slot watch unavailable", "error", err)
		_ = watcher.Close()
		return
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name == local.Path() && event.Op.Has(fsnotify.Write) {
					log.Debug("cache slot rewritten outside this session", "path", event.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Debug("cache slot watch error", "error", err)
			}
		}
	}()
}

func (c *playCommander) loop(controller *turn.Controller, log *slog.Logger) error {
	scanner := bufio.NewScanner(os.Stdin)
	var options []string
	if record := controller.Record(); record != nil {
		options = record.CurrentScene.Options
	}

	for {
		fmt.Print(cliui.PromptStyle.Render("you> "))
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}
		if input == "/status" {
			printStatus(controller.Record())
			continue
		}

		choice := buildChoice(input, options)

		var result *turn.Result
		err := cliui.Step(os.Stderr, "Narrating", func() error {
			var stepErr error
			result, stepErr = controller.SubmitChoice(context.Background(), choice)
			return stepErr
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			fmt.Fprintf(os.Stderr, "  %s\n\n", cliui.DimStyle.Render("Nothing was saved. Submit again to retry."))
			continue
		}

		if !result.Accepted {
			log.Debug("turn in flight, input ignored")
			continue
		}

		renderScene(result.Scene)
		options = result.Scene.Options
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

// buildChoice maps raw input to a turn choice: a number picks the matching
// scene option, anything else is submitted as free-form text.
func buildChoice(input string, options []string) turn.Choice {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(options) {
		return turn.Choice{
			Text:            options[n-1],
			InteractionType: narrator.InteractionNarrativeChoice,
			Index:           n - 1,
		}
	}

	return turn.Choice{
		Text:            input,
		InteractionType: narrator.InteractionNarrativeChoice,
		Index:           -1,
	}
}

func renderScene(s *scene.Scene) {
	if s == nil {
		return
	}

	fmt.Printf("\n  %s %s\n",
		cliui.KeyStyle.Render("Location:"),
		cliui.NameStyle.Render(s.Location),
	)
	if s.MoodAtmosphere != "" {
		fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Mood:"), cliui.DimStyle.Render(s.MoodAtmosphere))
	}

	rendered, err := cliui.RenderMarkdown(s.NarrationText)
	if err != nil {
		rendered = "\n" + s.NarrationText + "\n"
	}
	fmt.Print(rendered)

	for _, line := range s.Dialogue {
		fmt.Printf("  %s %s\n",
			cliui.NameStyle.Render(line.Speaker+":"),
			line.Text,
		)
	}
	if len(s.Dialogue) > 0 {
		fmt.Println()
	}

	for i, option := range s.Options {
		fmt.Printf("  %s %s\n",
			cliui.KeyStyle.Render(fmt.Sprintf("%d.", i+1)),
			option,
		)
	}
	fmt.Println()
}

func printStatus(record *memory.Record) {
	if record == nil {
		fmt.Printf("  %s No memory yet. Make a first move.\n\n", cliui.DimStyle.Render("●"))
		return
	}

	fmt.Printf("\n  %s %s\n", cliui.KeyStyle.Render("Session:  "), record.SessionID)
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("World:    "), record.World)
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Location: "), record.Location)
	fmt.Printf("  %s %d\n", cliui.KeyStyle.Render("Scenes:   "), record.ScenesCompleted)
	fmt.Printf("  %s %d min\n\n", cliui.KeyStyle.Render("Play time:"), record.PlayTimeMinutes)
}
