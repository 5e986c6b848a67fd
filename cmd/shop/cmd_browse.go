package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/shopfront/internal/apiclient"
	"github.com/example/shopfront/internal/cart"
	"github.com/example/shopfront/internal/catalog"
	"github.com/example/shopfront/internal/feedback"
	"github.com/example/shopfront/internal/view"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive shopping session with a cart",
	Long: `Interactive shopper view. Commands:
  add <n>       add the n-th listed product to the cart
  remove <n>    remove the n-th cart entry
  search <text> filter products by name (empty to reset)
  category <c>  filter products by category (empty to reset)
  show          re-render products and cart
  checkout      complete the order and empty the cart
  quit          leave`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store := catalog.NewStore(apiclient.New(apiURL))
	basket := cart.New()
	notify := feedback.NewNotifier(feedback.DefaultDismissAfter)
	criteria := view.Criteria{}

	store.Refresh(ctx)

	render := func() {
		visible := view.Filter(store.Get(), criteria)
		fmt.Println("--- Products ---")
		for i, item := range visible {
			fmt.Printf("%3d. %s - $%s\n", i+1, item.Name, item.Price.StringFixed(2))
		}
		fmt.Println("--- Cart ---")
		if basket.IsEmpty() {
			fmt.Println(cart.EmptyMessage)
		} else {
			for i, item := range basket.Items() {
				fmt.Printf("%3d. %s - $%s\n", i+1, item.Name, item.Price.StringFixed(2))
			}
		}
		fmt.Printf("Total: $%s\n", basket.FormattedTotal())
		if msg, ok := notify.Current(); ok {
			fmt.Printf("» %s\n", msg)
		}
	}

	render()
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		verb, rest, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		switch verb {
		case "add":
			visible := view.Filter(store.Get(), criteria)
			if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= len(visible) {
				basket.Add(visible[n-1])
				notify.Flash("Item added to cart!")
			}
			render()
		case "remove":
			if n, err := strconv.Atoi(rest); err == nil {
				basket.RemoveAt(n - 1)
				notify.Flash("Item removed from cart!")
			}
			render()
		case "search":
			criteria.SearchText = rest
			render()
		case "category":
			criteria.Category = rest
			render()
		case "show":
			render()
		case "checkout":
			basket.Clear()
			fmt.Println("Order placed, thank you!")
			render()
		case "quit", "exit":
			return nil
		case "":
		default:
			fmt.Println("unknown command:", verb)
		}
		fmt.Print("> ")
	}
	return scanner.Err()
}
