package ui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const banner = "       ________     ____ \n" +
	"  ___ / / ____/___ / __/_______\n" +
	" / _ \\/ / / / __ \\/ /_/ ___/ _ \\\n" +
	"/ __/ / /___/ /_/ / __/ / / __/ \n" +
	"\\___/_/\\____/\\____/_/ /_/ \\___/\n"

// Console reads user input line by line and writes prompts and menus.
// Every numeric prompt re-asks on invalid input instead of failing.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole wires the console to the given streams.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// ShowBanner prints the welcome header and the API probe notice.
func (c *Console) ShowBanner() {
	fmt.Fprint(c.out, banner+"\n")
	fmt.Fprintln(c.out, "Welcome to elCofre Digital Shopping Experiences.")
	fmt.Fprintln(c.out, "\nChecking API status...")
}

// ShowStartup prints the local file check and start messages.
func (c *Console) ShowStartup() {
	fmt.Fprintln(c.out, "\n\nVerifying local files...")
	fmt.Fprintln(c.out, "Starting program...")
}

// ShowMainMenu prints the top-level menu.
func (c *Console) ShowMainMenu() {
	fmt.Fprintln(c.out, "\n\t1) Manage Products\n\t2) Manage Shops\n\t3) Search Products\n\t4) List Shops\n\t5) Your Cart\n\n\t6) Exit")
}

// ShowProductMenu prints the product management menu.
func (c *Console) ShowProductMenu() {
	fmt.Fprintln(c.out, "\n\t1) Create a Product\n\t2) Remove a Product\n\n\t3) Back")
}

// ShowShopMenu prints the shop management menu.
func (c *Console) ShowShopMenu() {
	fmt.Fprintln(c.out, "\n\t1) Create a Shop\n\t2) Expand a Shop's Catalogue\n\t3) Reduce a Shop's Catalogue\n\n\t4) Back")
}

// ShowReviewMenu prints the review submenu shown from search results.
func (c *Console) ShowReviewMenu() {
	fmt.Fprintln(c.out, "\n\t1) Read Reviews\n\t2) Review Product\n\n\t3) Back")
}

// ShowCatalogueMenu prints the submenu shown for a catalogue entry.
func (c *Console) ShowCatalogueMenu() {
	fmt.Fprintln(c.out, "\n\t1) Read Reviews\n\t2) Review Product\n\t3) Add to a cart\n\n\t4) Back")
}

// ShowCartMenu prints the cart submenu.
func (c *Console) ShowCartMenu() {
	fmt.Fprintln(c.out, "\n\t1) Checkout\n\t2) Clear Cart\n\n\t3) Back")
}

// Show writes a message as-is.
func (c *Console) Show(message string) {
	fmt.Fprint(c.out, message)
}

// Showf writes a formatted message.
func (c *Console) Showf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// PromptString asks for a line of text.
func (c *Console) PromptString(message string) string {
	fmt.Fprint(c.out, message)
	line, _ := c.in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

// PromptOption asks for an integer option until one is given.
func (c *Console) PromptOption(message string) int {
	for {
		input := c.PromptString(message)
		option, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			fmt.Fprintln(c.out, "ERROR: option must be an integer!")
			fmt.Fprintln(c.out)
			continue
		}
		return option
	}
}

// PromptNumber asks for a decimal number until one is given.
func (c *Console) PromptNumber(message string) float64 {
	fmt.Fprint(c.out, message)
	for {
		line, _ := c.in.ReadString('\n')
		number, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if err != nil {
			fmt.Fprintln(c.out, "ERROR: Number not valid.")
			fmt.Fprint(c.out, message)
			continue
		}
		return number
	}
}

// PromptCategory asks for one of the three product categories and
// returns its persisted tag.
func (c *Console) PromptCategory() string {
	fmt.Fprintln(c.out, "\nThe system supports the following product categories:")
	fmt.Fprintln(c.out, "\n\tA) General\n\tB) Reduced Taxes\n\tC) Superreduced Taxes")
	fmt.Fprintln(c.out)

	for {
		choice := strings.ToUpper(strings.TrimSpace(c.PromptString("Please pick the product's category: ")))
		switch choice {
		case "A":
			return "GENERAL"
		case "B":
			return "REDUCED"
		case "C":
			return "SUPER_REDUCED"
		}
		fmt.Fprintln(c.out, "ERROR: Invalid category. Please enter a valid category")
		fmt.Fprintln(c.out)
	}
}

// PromptBusinessModel asks for one of the three business models and
// returns its persisted tag.
func (c *Console) PromptBusinessModel() string {
	fmt.Fprintln(c.out, "\nThe system supports the following business models:")
	fmt.Fprintln(c.out, "\n\tA) Maximum Benefits\n\tB) Loyalty\n\tC) Sponsored")
	fmt.Fprintln(c.out)

	for {
		choice := strings.ToUpper(strings.TrimSpace(c.PromptString("Please pick the shop's business model: ")))
		switch choice {
		case "A":
			return "MAX_PROFIT"
		case "B":
			return "LOYALTY"
		case "C":
			return "SPONSORED"
		}
		fmt.Fprintln(c.out, "ERROR: Invalid business model.")
		fmt.Fprintln(c.out)
	}
}

// ConfirmYes asks a question and reports whether the user answered yes,
// regardless of case.
func (c *Console) ConfirmYes(message string) bool {
	return strings.EqualFold(strings.TrimSpace(c.PromptString(message)), "yes")
}

// TitleCaseBrand normalizes a brand to one-word-capitalized form, so
// "rocA roCa" becomes "Roca Roca".
func TitleCaseBrand(brand string) string {
	words := strings.Fields(strings.ToLower(brand))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// CountStars counts the asterisks in a star rating. Any other character
// invalidates the rating.
func CountStars(stars string) int {
	count := 0
	for _, r := range stars {
		if r != '*' {
			return -1
		}
		count++
	}
	return count
}
