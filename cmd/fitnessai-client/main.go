package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"fitnessai-client-go/internal/bootstrap"
	"fitnessai-client-go/internal/domain/session"
)

const usage = `usage: fitnessai-client [-config path] <command>

commands:
  register  -email -username -password [-fullname]   create an account
  login     -email -password                         sign in and persist the session
  logout                                             sign out and clear local credentials
  status                                             show the current session
  health                                             check backend reachability
`

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fitnessai-client: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, command string, args []string) error {
	ctx := context.Background()

	app, err := bootstrap.New(configPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = app.Close(ctx)
	}()

	// Pick up a persisted session before any command; validity is checked
	// lazily by the first authenticated request.
	if _, err := app.Session.Restore(ctx); err != nil {
		return err
	}

	switch command {
	case "register":
		return runRegister(ctx, app, args)
	case "login":
		return runLogin(ctx, app, args)
	case "logout":
		return app.Session.Logout(ctx)
	case "status":
		return runStatus(app)
	case "health":
		return runHealth(ctx, app)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func runRegister(ctx context.Context, app *bootstrap.App, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password (min 8 chars)")
	fullName := fs.String("fullname", "", "full name (optional)")
	_ = fs.Parse(args)

	user, err := app.Session.Register(ctx, session.RegisterInput{
		Email:    *email,
		Username: *username,
		Password: *password,
		FullName: *fullName,
	})
	if err != nil {
		return err
	}
	fmt.Printf("registered %s (%s); log in to start a session\n", user.Username, user.Email)
	return nil
}

func runLogin(ctx context.Context, app *bootstrap.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	sess, err := app.Session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if sess.User != nil {
		fmt.Printf("logged in as %s\n", sess.User.ID)
	} else {
		fmt.Println("logged in")
	}
	return nil
}

func runStatus(app *bootstrap.App) error {
	state := app.Session.State()
	fmt.Printf("state: %s\n", state)
	if state != session.StateAuthenticated {
		return nil
	}
	sess := app.Session.Current()
	if sess.User != nil {
		fmt.Printf("user: %s\n", sess.User.ID)
	}
	if exp, ok := session.AccessTokenExpiry(sess.Credentials.AccessToken); ok {
		fmt.Printf("access token expires: %s\n", exp.Format(time.RFC3339))
	}
	return nil
}

func runHealth(ctx context.Context, app *bootstrap.App) error {
	health, err := app.API.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s: %s\n", health.Service, health.Version, health.Status)
	return nil
}
