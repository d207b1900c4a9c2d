package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/alanbouo/fitlog/internal/api"
	"github.com/alanbouo/fitlog/internal/config"
	"github.com/alanbouo/fitlog/internal/credstore"
	"github.com/alanbouo/fitlog/internal/engine"
	"github.com/alanbouo/fitlog/internal/exercises"
	"github.com/alanbouo/fitlog/internal/models"
	"github.com/alanbouo/fitlog/internal/session"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// stdin is shared across prompts so buffered lines are not lost
// between consecutive reads when input is piped.
var stdin = bufio.NewReader(os.Stdin)

const usageText = `Usage: fitlog [-config FILE] <command> [flags]

Commands:
  signup    create an account and log in
  login     authenticate and store the credential
  logout    clear the session (best-effort server logout)
  whoami    show the current user
  list      show all workouts and the current suggestion
  log       record a workout (e.g. fitlog log -exercise Squats -sets 3 -reps 15)
  complete  mark a workout completed (-id N)
  delete    delete a workout (-id N, asks for confirmation)
  suggest   show the latest next-exercise suggestion
  version   print version and exit
`

// app bundles the wired-up client stack for the subcommands.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	store   *credstore.SQLiteStore
	session *session.Manager
	client  *api.Client
	engine  *engine.Engine
}

func main() {
	defaultConfig := "fitlog.yaml"
	if home, err := os.UserHomeDir(); err == nil {
		defaultConfig = filepath.Join(home, ".fitlog", "config.yaml")
	}
	configPath := flag.String("config", defaultConfig, "path to config file")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usageText)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	if args[0] == "version" {
		fmt.Println("fitlog", Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.Log.Level)}))

	stateDir, err := cfg.StateDir()
	if err != nil {
		log.Error("resolving state dir", "error", err)
		os.Exit(1)
	}
	store, err := credstore.OpenSQLite(stateDir)
	if err != nil {
		log.Error("opening credential store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	mgr := session.NewManager(store, log, session.WithExpiredHook(func() {
		fmt.Fprintln(os.Stderr, "Session expired. Run 'fitlog login' to sign in again.")
	}))
	client := api.New(cfg.Server.URL,
		api.WithTokenSource(mgr),
		api.WithUnauthorizedHook(mgr.HandleUnauthorized),
		api.WithTimeout(cfg.Server.Timeout()),
	)
	mgr.SetGateway(client)

	a := &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		session: mgr,
		client:  client,
		engine:  engine.New(client, log),
	}

	ctx := context.Background()
	if err := a.run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "signup":
		return a.cmdSignup(ctx, args)
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.cmdLogout(ctx)
	case "whoami":
		return a.cmdWhoami(ctx)
	case "list":
		return a.cmdList(ctx)
	case "log":
		return a.cmdLog(ctx, args)
	case "complete":
		return a.cmdComplete(ctx, args)
	case "delete":
		return a.cmdDelete(ctx, args)
	case "suggest":
		return a.cmdSuggest(ctx)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// requireAuth restores the session and gates the command the way the
// route guard gates a protected destination.
func (a *app) requireAuth(ctx context.Context) error {
	a.session.Restore(ctx)
	if session.Decide(a.session.Status(), session.DestProtected) != session.Render {
		return fmt.Errorf("not logged in; run 'fitlog login' first")
	}
	return nil
}

func (a *app) cmdSignup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	username := fs.String("username", "", "username")
	email := fs.String("email", "", "email address")
	_ = fs.Parse(args)

	if *username == "" || *email == "" {
		return fmt.Errorf("signup requires -username and -email")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if err := session.ValidateSignup(password, confirm); err != nil {
		return err
	}

	if err := a.session.Signup(ctx, *username, *email, password); err != nil {
		return err
	}
	fmt.Printf("Welcome, %s! Account created.\n", a.session.User().Username)
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "username or email")
	_ = fs.Parse(args)

	if *username == "" {
		return fmt.Errorf("login requires -username")
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, *username, password); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s.\n", a.session.User().Username)
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	a.session.Restore(ctx)
	a.session.Logout(ctx)
	fmt.Println("Logged out.")
	return nil
}

func (a *app) cmdWhoami(ctx context.Context) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}
	user := a.session.User()
	fmt.Printf("%s <%s> (id %d)\n", user.Username, user.Email, user.ID)
	return nil
}

func (a *app) cmdList(ctx context.Context) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}
	if err := a.engine.LoadAll(ctx); err != nil {
		return err
	}
	if err := a.engine.LoadSuggestion(ctx); err != nil {
		a.log.Warn("suggestion unavailable", "error", err)
	}

	workouts := a.engine.Workouts()
	if len(workouts) == 0 {
		fmt.Println("No workouts logged yet.")
	}
	for _, w := range workouts {
		printWorkout(w)
	}
	if sug := a.engine.Suggestion(); sug != nil {
		fmt.Println()
		printSuggestion(sug)
	}
	return nil
}

func (a *app) cmdLog(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	exercise := fs.String("exercise", "", "exercise name")
	sets := fs.Int("sets", 1, "number of sets")
	reps := fs.Int("reps", 0, "reps per set")
	duration := fs.Int("duration", 0, "duration in seconds")
	_ = fs.Parse(args)

	if err := a.requireAuth(ctx); err != nil {
		return err
	}

	draft := models.WorkoutDraft{Exercise: *exercise, Sets: *sets, Reps: *reps, Duration: *duration}
	workout, err := a.engine.Create(ctx, draft)
	if err != nil {
		return err
	}

	fmt.Println("Logged:")
	printWorkout(*workout)
	if sug := a.engine.Suggestion(); sug != nil {
		fmt.Println()
		printSuggestion(sug)
	}
	return nil
}

func (a *app) cmdComplete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("complete", flag.ExitOnError)
	id := fs.Int("id", 0, "workout id")
	_ = fs.Parse(args)

	if *id <= 0 {
		return fmt.Errorf("complete requires -id")
	}
	if err := a.requireAuth(ctx); err != nil {
		return err
	}
	if err := a.engine.Complete(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("Workout %d marked as completed.\n", *id)
	return nil
}

func (a *app) cmdDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.Int("id", 0, "workout id")
	yes := fs.Bool("yes", false, "skip confirmation")
	_ = fs.Parse(args)

	if *id <= 0 {
		return fmt.Errorf("delete requires -id")
	}
	if err := a.requireAuth(ctx); err != nil {
		return err
	}

	// The engine only accepts post-confirmed intents, so the
	// confirmation happens here.
	if !*yes && !confirm(fmt.Sprintf("Delete workout %d? [y/N] ", *id)) {
		fmt.Println("Aborted.")
		return nil
	}

	if err := a.engine.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("Workout %d deleted.\n", *id)
	return nil
}

func (a *app) cmdSuggest(ctx context.Context) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}
	if err := a.engine.LoadSuggestion(ctx); err != nil {
		return err
	}
	sug := a.engine.Suggestion()
	if sug == nil {
		fmt.Println("No suggestion available.")
		return nil
	}
	printSuggestion(sug)
	return nil
}

func printWorkout(w models.Workout) {
	status := " "
	if w.Completed {
		status = "x"
	}
	class := exercises.Classify(w.Exercise)
	fmt.Printf("  [%s] #%-4d %-24s %s", status, w.ID, w.Exercise, class.Category)
	if w.Sets > 0 {
		fmt.Printf("  %d sets", w.Sets)
	}
	if w.Reps > 0 {
		fmt.Printf(" x %d reps", w.Reps)
	}
	if w.Duration > 0 {
		fmt.Printf("  %ds", w.Duration)
	}
	if !w.Timestamp.IsZero() {
		fmt.Printf("  (%s)", w.Timestamp.Format("2006-01-02 15:04"))
	}
	fmt.Println()
}

func printSuggestion(s *models.Suggestion) {
	fmt.Printf("Next up: %s\n", s.Exercise)
	fmt.Printf("  %s\n", s.Reason)
	var parts []string
	if s.Sets != nil {
		parts = append(parts, fmt.Sprintf("%d sets", *s.Sets))
	}
	if s.Reps != nil {
		parts = append(parts, fmt.Sprintf("%d reps", *s.Reps))
	}
	if s.Duration != nil {
		parts = append(parts, fmt.Sprintf("%ds", *s.Duration))
	}
	if len(parts) > 0 {
		fmt.Printf("  Try: %s\n", strings.Join(parts, ", "))
	}
}

// promptPassword reads a password without echo when stdin is a
// terminal, falling back to a plain line read otherwise (pipes, tests).
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(data), nil
	}
	line, err := stdin.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func confirm(prompt string) bool {
	fmt.Fprint(os.Stderr, prompt)
	line, err := stdin.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
