package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"spendlog/internal/auth"
	"spendlog/internal/backend"
	"spendlog/internal/cli"
	"spendlog/internal/core"
	"spendlog/internal/report"
	"spendlog/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel)

	ctx := context.Background()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Backend cleanup failed", "error", err)
			}
		}
	}()

	registry, err := auth.OpenRegistry(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open user registry", "error", err, "dir", cfg.DataDir)
		os.Exit(1)
	}

	svc := services.NewService(registry, result.Store)
	in := bufio.NewScanner(os.Stdin)

	sess := authenticate(ctx, svc, in, cfg.DataDir)
	if sess == nil {
		return
	}

	runShell(ctx, svc, sess, in, cfg.DataDir)

	if err := svc.Logout(ctx, sess); err != nil {
		logger.Error("Failed to save ledger on exit", "error", err, "user", sess.Username)
		os.Exit(1)
	}
}

// authenticate runs the login/register prompt loop until a session is
// established or the user quits. A remembered username prefills the prompt.
func authenticate(ctx context.Context, svc *services.Service, in *bufio.Scanner, dataDir string) *services.Session {
	remembered, _ := auth.RememberedUser(dataDir)

	for {
		fmt.Println("Commands: login, register, quit")
		switch prompt(in, "> ") {
		case "login":
			username := promptDefault(in, "Username", remembered)
			password, err := promptPassword("Password: ")
			if err != nil {
				fmt.Println("Could not read password:", err)
				continue
			}
			sess, err := svc.Login(ctx, username, password)
			if err != nil {
				fmt.Println("Login failed:", err)
				continue
			}
			if strings.EqualFold(prompt(in, "Remember me? [y/N] "), "y") {
				_ = auth.Remember(dataDir, username)
			} else {
				_ = auth.Forget(dataDir)
			}
			fmt.Printf("Welcome back, %s.\n", username)
			return sess

		case "register":
			username := prompt(in, "Username: ")
			password, err := promptPassword("Password: ")
			if err != nil {
				fmt.Println("Could not read password:", err)
				continue
			}
			if err := svc.Register(ctx, username, password); err != nil {
				fmt.Println("Registration failed:", err)
				continue
			}
			fmt.Println("Account created. You can now log in.")

		case "quit", "exit", "":
			return nil

		default:
			fmt.Println("Unknown command.")
		}
	}
}

func runShell(ctx context.Context, svc *services.Service, sess *services.Session, in *bufio.Scanner, dataDir string) {
	fmt.Println(`Type "help" for the command list.`)
	for {
		line := prompt(in, fmt.Sprintf("%s> ", sess.Username))
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case "add":
			category := prompt(in, "Category: ")
			amount := prompt(in, "Amount: ")
			note := prompt(in, "Note: ")
			res, err := svc.Add(ctx, sess, category, amount, note)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Printf("Added %s (%s %s).\n", res.Expense.ID, res.Expense.Category, core.FormatAmount(res.Expense.Amount))
			if res.OverBudget {
				fmt.Println("Warning: you are over budget!")
			}

		case "edit":
			if rest == "" {
				fmt.Println("Usage: edit <id>")
				continue
			}
			category := prompt(in, "Category: ")
			amount := prompt(in, "Amount: ")
			note := prompt(in, "Note: ")
			if _, err := svc.Edit(ctx, sess, rest, category, amount, note); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Updated.")

		case "delete":
			if rest == "" {
				fmt.Println("Usage: delete <id>")
				continue
			}
			if err := svc.Delete(ctx, sess, rest); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Deleted.")

		case "clear":
			if !strings.EqualFold(prompt(in, "Delete ALL expenses? [y/N] "), "y") {
				continue
			}
			if err := svc.DeleteAll(ctx, sess); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("All expenses deleted.")

		case "budget":
			if rest == "" {
				fmt.Println("Usage: budget <amount>")
				continue
			}
			if err := svc.SetBudget(ctx, sess, rest); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Budget updated.")

		case "list":
			printExpenses(svc.Filter(sess, rest))

		case "summary":
			printSummary(svc.Summary(sess))

		case "report":
			fmt.Println(report.Markdown(sess.Username, sess.Ledger))

		case "import":
			if rest == "" {
				fmt.Println("Usage: import <file.csv>")
				continue
			}
			f, err := os.Open(rest)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			res, err := svc.Import(ctx, sess, f)
			f.Close()
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Printf("Imported %d expenses (%d skipped).\n", len(res.Added), res.Skipped)

		case "export":
			if rest == "" {
				fmt.Println("Usage: export <file.csv>")
				continue
			}
			f, err := os.Create(rest)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			err = svc.Export(sess, f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Printf("Exported %d expenses to %s.\n", len(sess.Ledger.Expenses), rest)

		case "avatar":
			if err := svc.SetAvatar(ctx, sess, rest); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			if rest == "" {
				fmt.Println("Avatar cleared.")
			} else {
				fmt.Println("Avatar updated.")
			}

		case "help":
			printHelp()

		case "logout":
			_ = auth.Forget(dataDir)
			return

		case "quit", "exit", "":
			return

		default:
			fmt.Println(`Unknown command. Type "help" for the command list.`)
		}
	}
}

func printExpenses(expenses []core.Expense) {
	if len(expenses) == 0 {
		fmt.Println("No expenses.")
		return
	}
	for _, e := range expenses {
		fmt.Printf("%s  %s  %-10s %10s  %s\n", e.ID, e.Date, e.Category, core.FormatAmount(e.Amount), e.Note)
	}
}

func printSummary(s core.Summary) {
	fmt.Printf("Budget:    %s\n", core.FormatAmount(s.Budget))
	fmt.Printf("Spent:     %s\n", core.FormatAmount(s.TotalSpent))
	fmt.Printf("Remaining: %s\n", core.FormatAmount(s.Remaining))
	if s.OverBudget {
		fmt.Println("Budget exceeded!")
	}
}

func printHelp() {
	fmt.Println(`Commands:
  add                  record a new expense
  edit <id>            change an expense's category, amount and note
  delete <id>          remove one expense
  clear                remove all expenses
  budget <amount>      set the monthly budget (0 unsets it)
  list [query]         show expenses, optionally filtered
  summary              budget, total spent and remaining
  report               markdown expense report
  import <file.csv>    append expenses from a CSV file
  export <file.csv>    write all expenses to a CSV file
  avatar [path]        set or clear the profile picture path
  logout               save, forget the remembered user and exit
  quit                 save and exit`)
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

func promptDefault(in *bufio.Scanner, label, fallback string) string {
	if fallback != "" {
		label = fmt.Sprintf("%s [%s]", label, fallback)
	}
	value := prompt(in, label+": ")
	if value == "" {
		return fallback
	}
	return value
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
