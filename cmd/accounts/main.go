// Package main runs the interactive account shell: it loads the account list
// from the configured storage backend and edits it from the command line.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/accountkeeper/internal/client"
	"github.com/atinyakov/accountkeeper/internal/config"
	"github.com/atinyakov/accountkeeper/internal/kv"
	"github.com/atinyakov/accountkeeper/internal/logger"
	"github.com/atinyakov/accountkeeper/internal/models"
	"github.com/atinyakov/accountkeeper/internal/registry"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const helpText = "Available commands: help, list, add, edit <index>, remove <index>, reload, exit"

// repl runs the interactive shell loop until exit or end of input.
func repl(ctx context.Context, reg *registry.Registry, p *client.Prompter, out io.Writer) {
	for {
		line, err := p.Line("accounts> ")
		if err != nil {
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Fprintln(out, helpText)
		case "list":
			printAccounts(out, reg.Accounts())
		case "add":
			acc, err := p.PromptForAccount()
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			if err := reg.Add(ctx, acc); err != nil {
				fmt.Fprintln(out, "Add failed:", err)
				continue
			}
			fmt.Fprintln(out, "Account added")
		case "edit":
			idx, ok := indexArg(out, args, "edit")
			if !ok {
				continue
			}
			current, err := reg.At(idx)
			if err != nil {
				fmt.Fprintln(out, "Account not found")
				continue
			}
			acc, err := p.PromptEditAccount(current)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			if err := reg.Update(ctx, idx, acc); err != nil {
				fmt.Fprintln(out, "Update failed:", err)
				continue
			}
			fmt.Fprintln(out, "Account updated")
		case "remove":
			idx, ok := indexArg(out, args, "remove")
			if !ok {
				continue
			}
			err := reg.Remove(ctx, idx)
			switch {
			case errors.Is(err, registry.ErrIndexOutOfRange):
				fmt.Fprintln(out, "Account not found")
			case err != nil:
				fmt.Fprintln(out, "Remove failed:", err)
			default:
				fmt.Fprintln(out, "Account removed")
			}
		case "reload":
			if err := reg.Load(ctx); err != nil {
				fmt.Fprintln(out, "Reload failed:", err)
				continue
			}
			fmt.Fprintf(out, "Loaded %d accounts\n", reg.Len())
		case "exit":
			fmt.Fprintln(out, "Bye")
			return
		default:
			fmt.Fprintln(out, "Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func indexArg(out io.Writer, args []string, cmd string) (int, bool) {
	if len(args) < 2 {
		fmt.Fprintf(out, "Usage: %s <index>\n", cmd)
		return 0, false
	}
	idx, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(out, "Usage: %s <index>\n", cmd)
		return 0, false
	}
	return idx, true
}

func printAccounts(out io.Writer, accounts []models.Account) {
	if len(accounts) == 0 {
		fmt.Fprintln(out, "No accounts")
		return
	}
	for i, a := range accounts {
		labels := make([]string, 0, len(a.Labels))
		for _, l := range a.Labels {
			labels = append(labels, l.Text)
		}
		password := "(none)"
		if a.Password != nil {
			password = strings.Repeat("*", len(*a.Password))
		}
		fmt.Fprintf(out, "[%d] %s (%s)\n    Labels: %s\n    Password: %s\n",
			i, a.Login, a.Type, strings.Join(labels, ", "), password)
	}
}

// logChanges reports every registry change to log.
func logChanges(log *zap.Logger) registry.Observer {
	return func(ev registry.Event) {
		log.Info("accounts changed",
			zap.String("op", string(ev.Op)),
			zap.Int("index", ev.Index),
			zap.Int("count", len(ev.Accounts)),
		)
	}
}

func main() {
	options, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if options.Version {
		fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
		fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))
		return
	}

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx := context.Background()

	store, err := kv.Open(ctx, options, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot open storage", zap.String("backend", options.Backend), zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			zapLogger.Error("failed to close storage", zap.Error(err))
		}
	}()

	reg := registry.New(store, registry.WithLogger(zapLogger))
	if err := reg.Load(ctx); err != nil {
		// A snapshot that cannot be read is fatal at startup.
		zapLogger.Fatal("cannot load accounts", zap.Error(err))
	}
	zapLogger.Info("accounts loaded", zap.String("backend", options.Backend), zap.Int("count", reg.Len()))

	unsubscribe := reg.Subscribe(logChanges(zapLogger))
	defer unsubscribe()

	repl(ctx, reg, client.NewPrompter(os.Stdin, os.Stdout), os.Stdout)
}
