// Command chatcli runs the assistant in a terminal against in-memory bookings.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wolfman30/elitecuts-assistant/internal/bookings"
	appconfig "github.com/wolfman30/elitecuts-assistant/internal/config"
	"github.com/wolfman30/elitecuts-assistant/internal/dialogue"
	"github.com/wolfman30/elitecuts-assistant/internal/knowledge"
	"github.com/wolfman30/elitecuts-assistant/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	dataFile := flag.String("data", cfg.KnowledgeFile, "YAML shop dataset (built-in data when empty)")
	debug := flag.Bool("debug", false, "print intent and booking step after each reply")
	flag.Parse()

	logger := logging.New("error")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var source knowledge.Source
	if *dataFile != "" {
		file, err := knowledge.NewFileSource(*dataFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load data: %v\n", err)
			os.Exit(1)
		}
		source = file
	}
	loc := cfg.Location()
	clock := func() time.Time { return time.Now().In(loc) }
	snap := knowledge.NewLoader(source, logger, cfg.PrefetchTimeout, knowledge.WithClock(clock)).Load(ctx)

	hours := func(context.Context) []knowledge.WorkingHours { return snap.Hours }
	scheduler := bookings.NewService(bookings.NewMemory(bookings.DefaultSchedules()), hours, logger)
	engine := dialogue.NewEngine(scheduler, logger,
		dialogue.WithClock(clock),
		dialogue.WithHorizonDays(cfg.BookingHorizonDays),
		dialogue.WithShop(cfg.ShopName, cfg.ShopPhone),
	)

	if err := run(ctx, engine, snap, os.Stdin, os.Stdout, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "chat: %v\n", err)
		os.Exit(1)
	}
}

// run reads one user message per line until EOF, "quit" or "exit".
func run(ctx context.Context, engine *dialogue.Engine, snap *knowledge.Snapshot, in io.Reader, out io.Writer, debug bool) error {
	fmt.Fprintf(out, "bot> %s\n", engine.Welcome())

	st := dialogue.NewState()
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}

		var reply dialogue.Reply
		st, reply = engine.Step(ctx, snap, st, line)
		fmt.Fprintf(out, "bot> %s\n", reply.Text)
		if debug {
			fmt.Fprintf(out, "     [intent=%s step=%s]\n", reply.Intent, reply.Step)
		}
		if reply.Appointment != nil {
			fmt.Fprintf(out, "     booked %s\n", reply.Appointment.ConfirmationNumber())
		}
	}
}
