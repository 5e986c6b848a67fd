package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/shopfront/internal/admin"
	"github.com/example/shopfront/internal/apiclient"
	"github.com/example/shopfront/internal/catalog"
	"github.com/example/shopfront/internal/feedback"
	"github.com/example/shopfront/internal/session"
	"github.com/example/shopfront/internal/view"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Interactive admin session",
	Long: `Interactive admin view. Commands:
  list                          print the catalog (with ids)
  search <text>                 filter the listing by name
  stats                         item count and total catalog value
  create <name>;<price>;<cat>   add a new item
  edit <id>                     open an edit session
  update <name>;<price>;<cat>   replace the item under edit
  cancel                        close the edit session
  delete <id>                   delete an item (asks for confirmation)
  login <username>              authenticate (prompts for password)
  quit                          leave`,
	RunE: runAdmin,
}

func runAdmin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client := apiclient.New(apiURL)
	store := catalog.NewStore(client)
	notify := feedback.NewNotifier(feedback.DefaultDismissAfter)
	sess := session.New(client)

	reader := bufio.NewReader(os.Stdin)
	confirm := func(prompt string) bool {
		fmt.Printf("%s [y/N] ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
	mutator := admin.NewMutator(client, store, notify, confirm)

	store.Refresh(ctx)

	flash := func() {
		if msg, ok := notify.Current(); ok {
			fmt.Printf("» %s\n", msg)
		}
	}
	list := func(search string) {
		for _, item := range view.Filter(store.Get(), view.Criteria{SearchText: search}) {
			marker := " "
			if id, ok := mutator.Editing(); ok && id == item.ID {
				marker = "*"
			}
			fmt.Printf("%s%4d  %s - $%s (%s)\n", marker, item.ID, item.Name, item.Price.StringFixed(2), item.Category)
		}
	}

	fmt.Print("admin> ")
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
		switch verb {
		case "list":
			list("")
		case "search":
			list(rest)
		case "stats":
			items := store.Get()
			fmt.Printf("%d items, total value $%s\n", len(items), catalog.TotalValue(items).StringFixed(2))
		case "create":
			name, price, category, ok := splitFields(rest)
			if !ok {
				fmt.Println("usage: create <name>;<price>;<category>")
				break
			}
			reportMutation(mutator.Create(ctx, name, price, category))
			flash()
		case "edit":
			id, err := strconv.ParseInt(rest, 10, 64)
			if err != nil {
				fmt.Println("usage: edit <id>")
				break
			}
			if err := mutator.BeginEdit(id); err != nil {
				fmt.Println(err)
				break
			}
			form, _ := mutator.Session()
			fmt.Printf("editing %d: %s;%s;%s\n", form.ID, form.Name, form.Price.StringFixed(2), form.Category)
		case "update":
			name, price, category, ok := splitFields(rest)
			if !ok {
				fmt.Println("usage: update <name>;<price>;<category>")
				break
			}
			reportMutation(mutator.Update(ctx, name, price, category))
			flash()
		case "cancel":
			mutator.CancelEdit()
		case "delete":
			id, err := strconv.ParseInt(rest, 10, 64)
			if err != nil {
				fmt.Println("usage: delete <id>")
				break
			}
			reportMutation(mutator.Delete(ctx, id))
			flash()
		case "login":
			fmt.Print("password: ")
			pw, err := reader.ReadString('\n')
			if err != nil {
				return nil
			}
			if err := sess.Login(ctx, rest, strings.TrimSpace(pw)); err != nil {
				fmt.Println("login failed")
			} else {
				client.SetToken(sess.Token())
				fmt.Println("logged in")
			}
		case "quit", "exit":
			return nil
		case "":
		default:
			fmt.Println("unknown command:", verb)
		}
		fmt.Print("admin> ")
	}
}

// splitFields parses "name;price;category" command arguments.
func splitFields(s string) (name, price, category string, ok bool) {
	parts := strings.SplitN(s, ";", 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]), true
}

func reportMutation(err error) {
	switch {
	case err == nil:
	case errors.Is(err, admin.ErrInvalidInput):
		fmt.Println("name, price and category are required; price must be a non-negative number")
	case errors.Is(err, admin.ErrEditInProgress):
		fmt.Println("finish or cancel the current edit first")
	case errors.Is(err, admin.ErrNoEditSession):
		fmt.Println("no item under edit; use edit <id> first")
	case errors.Is(err, admin.ErrBusy):
		fmt.Println("previous operation still running")
	}
}
