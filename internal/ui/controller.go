package ui

import (
	"context"
	"fmt"

	"github.com/carlaabellana/ElCofre/internal/cart"
	"github.com/carlaabellana/ElCofre/internal/models"
	"github.com/carlaabellana/ElCofre/internal/registry"
	"github.com/carlaabellana/ElCofre/internal/util"

	"go.uber.org/zap"
)

// Controller drives the console client: it owns the menu loops and
// translates user choices into registry, dealer and cart operations.
type Controller struct {
	console  *Console
	products *registry.ProductRegistry
	shops    *registry.ShopRegistry
	dealer   *registry.Dealer
	cart     *cart.Engine
	logger   *zap.Logger
}

// NewController wires the console to the business layer.
func NewController(console *Console, products *registry.ProductRegistry, shops *registry.ShopRegistry, dealer *registry.Dealer, engine *cart.Engine) *Controller {
	return &Controller{
		console:  console,
		products: products,
		shops:    shops,
		dealer:   dealer,
		cart:     engine,
		logger:   util.GetLogger(),
	}
}

// Run executes the main menu until the user exits.
func (c *Controller) Run(ctx context.Context) {
	c.console.ShowStartup()
	for {
		c.console.ShowMainMenu()
		option := c.console.PromptOption("\nChoose a Digital Shopping Experience: ")
		switch option {
		case 1:
			c.manageProducts(ctx)
		case 2:
			c.manageShops(ctx)
		case 3:
			c.searchProducts(ctx)
		case 4:
			c.listShops(ctx)
		case 5:
			c.showCart(ctx)
		case 6:
			c.console.Show("\nWe hope to see you again!\n")
			return
		}
	}
}

func (c *Controller) manageProducts(ctx context.Context) {
	for {
		c.console.ShowProductMenu()
		switch c.console.PromptOption("\nChoose an option: ") {
		case 1:
			c.createProduct(ctx)
		case 2:
			c.removeProduct(ctx)
		case 3:
			return
		default:
			c.console.Show("ERROR: invalid Option\n")
		}
	}
}

func (c *Controller) createProduct(ctx context.Context) {
	name := c.console.PromptString("\nPlease enter the product's name: ")

	exists, err := c.products.Exists(ctx, name)
	if err != nil {
		c.showError(err)
		return
	}
	if exists {
		c.console.Show("\nThis product already exists\n")
		return
	}

	brand := TitleCaseBrand(c.console.PromptString("Please enter the product's brand: "))
	mrp := c.console.PromptNumber("Please enter the product's maximum retail price: ")
	category := c.console.PromptCategory()

	if err := c.products.Create(ctx, name, brand, mrp, category, 0); err != nil {
		c.showError(err)
		return
	}
	c.console.Showf("\nThe product %q by %q was added to the system.\n", name, brand)
}

func (c *Controller) removeProduct(ctx context.Context) {
	products, err := c.products.List(ctx)
	if err != nil {
		c.showError(err)
		return
	}
	if len(products) == 0 {
		c.console.Show("\nERROR: There are no products to remove...\n\n")
		return
	}

	c.console.Show("These are the currently available products:\n\n")
	for i, p := range products {
		c.console.Showf("\t%d) %q by %q\n", i+1, p.Name, p.Brand)
	}
	c.console.Showf("\n\t%d) Back\n\n", len(products)+1)

	index := c.console.PromptOption("\nWhich one would you like to remove? ")
	if index == len(products)+1 {
		return
	}
	if index < 1 || index > len(products) {
		c.console.Show("\nERROR: please enter a valid number\n\n")
		return
	}

	target := products[index-1]
	if !c.console.ConfirmYes(fmt.Sprintf("\nAre you sure you want to remove %q by %q? ", target.Name, target.Brand)) {
		c.console.Show("\nRemoval canceled!\n")
		return
	}
	if err := c.products.Remove(ctx, index-1); err != nil {
		c.showError(err)
		return
	}
	c.console.Showf("\n%q by %q has been withdrawn from sale.\n", target.Name, target.Brand)
}

func (c *Controller) manageShops(ctx context.Context) {
	for {
		c.console.ShowShopMenu()
		switch c.console.PromptOption("\nChoose an option: ") {
		case 1:
			c.createShop(ctx)
		case 2:
			c.expandCatalogue(ctx)
		case 3:
			c.reduceCatalogue(ctx)
		case 4:
			return
		default:
			c.console.Show("\nERROR: invalid Option\n")
		}
	}
}

func (c *Controller) createShop(ctx context.Context) {
	name := c.console.PromptString("Please enter the shop's name: ")

	exists, err := c.shops.Exists(ctx, name)
	if err != nil {
		c.showError(err)
		return
	}
	if exists {
		c.console.Show("\nThis shop already exists\n")
		return
	}

	description := c.console.PromptString("Please enter the shop's description: ")
	year := c.console.PromptOption("Please enter the shop's founding year: ")
	model := c.console.PromptBusinessModel()

	var loyaltyThreshold float64
	var sponsorBrand string
	switch model {
	case "LOYALTY":
		loyaltyThreshold = c.console.PromptNumber("Please enter the shop's loyalty threshold: ")
	case "SPONSORED":
		sponsorBrand = c.console.PromptString("Please enter the shop's sponsoring brand: ")
	}

	if err := c.shops.Create(ctx, name, description, year, model, loyaltyThreshold, sponsorBrand); err != nil {
		c.showError(err)
		return
	}
	c.console.Showf("\n%q is now part of elCofre family.\n", name)
}

func (c *Controller) expandCatalogue(ctx context.Context) {
	shopName := c.console.PromptString("Please enter the shop's name: ")
	exists, err := c.shops.Exists(ctx, shopName)
	if err != nil {
		c.showError(err)
		return
	}
	if !exists {
		c.console.Show("\nERROR: shop does not exists!\n")
		return
	}

	productName := c.console.PromptString("Please enter the product's name: ")
	product, ok, err := c.products.FindByName(ctx, productName)
	if err != nil {
		c.showError(err)
		return
	}
	if !ok {
		c.console.Show("\nERROR: Product does not exists!\n")
		return
	}

	price := c.console.PromptNumber("Please enter the product's price at this shop: ")
	within, err := c.products.PriceWithinLimit(ctx, price)
	if err != nil {
		c.showError(err)
		return
	}
	if !within {
		c.console.Show("\nERROR: Price exceeds maximum allowed!\n")
		return
	}

	if err := c.shops.AddToCatalogue(ctx, shopName, product.Name, price); err != nil {
		c.showError(err)
		return
	}
	c.console.Showf("\n%q by %q is now being sold at %q.\n", product.Name, product.Brand, shopName)
}

func (c *Controller) reduceCatalogue(ctx context.Context) {
	shopName := c.console.PromptString("Please enter the shop's name: ")
	exists, err := c.shops.Exists(ctx, shopName)
	if err != nil {
		c.showError(err)
		return
	}
	if !exists {
		c.console.Show("\nERROR: Wrong shop name or this shop does not exists.\n")
		return
	}

	products, err := c.dealer.ProductsAt(ctx, shopName)
	if err != nil {
		c.showError(err)
		return
	}
	if len(products) == 0 {
		c.console.Showf("\n%s has no products in its catalogue\n", shopName)
		return
	}

	c.console.Show("\nThis shop sells the following products:\n")
	for {
		for i, p := range products {
			c.console.Showf("\n\t%d) %q by %q", i+1, p.Name, p.Brand)
		}
		c.console.Showf("\n\n\t%d) Back\n", len(products)+1)

		option := c.console.PromptOption("\nWhich one would you like to remove? ")
		if option == len(products)+1 {
			return
		}
		if option < 1 || option > len(products) {
			c.console.Show("\nERROR: Invalid option.\n")
			continue
		}

		selected := products[option-1]
		if err := c.shops.RemoveFromCatalogue(ctx, shopName, selected.Name); err != nil {
			c.showError(err)
			return
		}
		c.console.Showf("\n%q by %q is no longer being sold at %q.\n", selected.Name, selected.Brand, shopName)
		products = append(products[:option-1], products[option:]...)
		if len(products) == 0 {
			return
		}
	}
}

func (c *Controller) searchProducts(ctx context.Context) {
	query := c.console.PromptString("\nEnter your query: ")
	results, err := c.products.Search(ctx, query)
	if err != nil {
		c.showError(err)
		return
	}
	if len(results) == 0 {
		c.console.Show("\nSorry, there's no results for your search\n")
		return
	}

	c.console.Show("\nThe following products where found:\n\n")
	for i, p := range results {
		c.console.Showf("\t%d) %q by %q\n", i+1, p.Name, p.Brand)
		listings, err := c.dealer.ShopsSelling(ctx, p.Name)
		if err != nil {
			c.showError(err)
			return
		}
		if len(listings) == 0 {
			c.console.Show("\tThis product is not currently being sold in any shops.\n")
			continue
		}
		c.console.Show("\t\tSold at:")
		for _, listing := range listings {
			c.console.Showf("\n\t\t\t- %s: %.2f\n", listing.Shop.Name, listing.Price)
		}
	}
	c.console.Showf("\n\t%d) Back\n", len(results)+1)

	option := c.console.PromptOption("\nWhich one would you like to review? ")
	if option == len(results)+1 {
		c.console.Show("Going back to to menu...\n")
		return
	}
	if option < 1 || option > len(results) {
		c.console.Show("\nERROR: invalid option\n")
		return
	}

	selected := results[option-1]
	c.console.ShowReviewMenu()
	switch c.console.PromptOption("\nChoose an option: ") {
	case 1:
		c.readReviews(ctx, &selected)
	case 2:
		c.reviewProduct(ctx, &selected)
	}
}

func (c *Controller) readReviews(ctx context.Context, product *models.Product) {
	reviews, err := c.products.Reviews(ctx, product.Name)
	if err != nil || len(reviews) == 0 {
		c.console.Showf("No reviews available for %q by %q.\n", product.Name, product.Brand)
		return
	}

	c.console.Showf("These are the reviews for %q by %q:\n\n", product.Name, product.Brand)
	for _, review := range reviews {
		c.console.Showf("\t%d* %s.\n", review.Rating, review.Comment)
	}
	c.console.Showf("\nAverage rating: %g*\n", registry.AverageRating(reviews))
}

func (c *Controller) reviewProduct(ctx context.Context, product *models.Product) {
	var rating int
	for {
		stars := c.console.PromptString("\nPlease rate the product (1-5 stars): ")
		rating = CountStars(stars)
		if rating >= 1 && rating <= 5 {
			break
		}
		c.console.Show("Please enter a valid rating (1-5 stars) using asterisks.\n")
	}

	comment := c.console.PromptString("Please add a comment to your review: ")
	if err := c.products.AddReview(ctx, product.Name, rating, comment); err != nil {
		c.showError(err)
		return
	}
	c.console.Showf("\nThank you for your review of %q by %q.\n", product.Name, product.Brand)
}

func (c *Controller) listShops(ctx context.Context) {
	for {
		shops, err := c.shops.List(ctx)
		if err != nil {
			c.console.Showf("Error loading shops: %s\n", err)
			return
		}
		if len(shops) == 0 {
			c.console.Show("\nNo shops available\n")
			return
		}

		c.console.Show("\nThe elCofre family is formed by the following shops: \n")
		for i, shop := range shops {
			c.console.Showf("\n\t%d) %s", i+1, shop.Name)
		}
		c.console.Showf("\n\n\t%d) Back\n", len(shops)+1)

		index := c.console.PromptOption("\nWhich catalogue do you want to see? ")
		if index == len(shops)+1 {
			return
		}
		if index < 1 || index > len(shops) {
			continue
		}

		shop := shops[index-1]
		c.console.Showf("\n%s - Since %d", shop.Name, shop.Since)
		c.console.Showf("\n%s\n", shop.Description)
		c.browseCatalogue(ctx, &shop)
	}
}

func (c *Controller) browseCatalogue(ctx context.Context, shop *models.Shop) {
	catalogue, err := c.shops.CatalogueOf(ctx, shop.Name)
	if err != nil {
		c.showError(err)
		return
	}
	if len(catalogue) == 0 {
		c.console.Show("No products available in the catalogue\n")
		return
	}

	for {
		shown := 0
		for i, entry := range catalogue {
			product, ok, err := c.products.FindByName(ctx, entry.ProductName)
			if err != nil {
				c.showError(err)
				return
			}
			if !ok {
				continue
			}
			shown++
			c.console.Showf("\n\t%d) %q by %q", i+1, product.Name, product.Brand)
			c.console.Showf("\n\tPrice: %g\n", entry.PriceAtShop)
		}
		if shown == 0 {
			c.console.Show("No products available in the catalogue\n")
			return
		}
		c.console.Showf("\n\n\t%d) Back\n", len(catalogue)+1)

		option := c.console.PromptOption("\nWhich one are you interested in? ")
		if option == len(catalogue)+1 {
			return
		}
		if option < 1 || option > len(catalogue) {
			continue
		}

		product, ok, err := c.products.FindByName(ctx, catalogue[option-1].ProductName)
		if err != nil {
			c.showError(err)
			return
		}
		if !ok {
			continue
		}

		c.console.ShowCatalogueMenu()
		switch c.console.PromptOption("\nChoose an option: ") {
		case 1:
			c.readReviews(ctx, product)
		case 2:
			stars := c.console.PromptString("\nPlease rate the product (1-5 stars): ")
			rating := CountStars(stars)
			if rating < 1 || rating > 5 {
				c.console.Show("\nERROR: Invalid rating\n")
				continue
			}
			comment := c.console.PromptString("Please add a comment to your review: ")
			if err := c.products.AddReview(ctx, product.Name, rating, comment); err != nil {
				c.showError(err)
				continue
			}
			c.console.Showf("\nThank you for your review of %q by %q.\n", product.Name, product.Brand)
		case 3:
			c.cart.AddLine(product.Name, shop.Name)
			c.console.Showf("\n1x %q by %q has been added to your cart.\n", product.Name, product.Brand)
		}
	}
}

func (c *Controller) showCart(ctx context.Context) {
	if c.cart.IsEmpty() {
		c.console.Show("Your cart is empty.\n")
		return
	}

	priced, total, err := c.cart.ComputeTotal(ctx)
	if err != nil {
		c.showError(err)
		return
	}

	c.console.Show("\nYour cart contains the following items: \n")
	for _, line := range priced {
		if line.Skipped {
			continue
		}
		c.console.Showf("\n\t- %q by %q\n\t\tPrice: %.2f\n", line.Product.Name, line.Product.Brand, line.Price)
	}
	c.console.Showf("\nTotal: %.2f\n", total)

	c.console.ShowCartMenu()
	switch c.console.PromptOption("\nChoose an option: ") {
	case 1:
		c.checkout(ctx)
	case 2:
		if !c.console.ConfirmYes("Are you sure you want to clear your cart? ") {
			c.console.Show("\nClearing cart canceled.\n")
			return
		}
		if c.cart.Clear() {
			c.console.Show("\nYour cart is already empty.\n")
		} else {
			c.console.Show("\nYour cart has been cleared.\n")
		}
	}
}

func (c *Controller) checkout(ctx context.Context) {
	confirmed := c.console.ConfirmYes("\nAre you sure you want to checkout? ")
	result, err := c.cart.Checkout(ctx, confirmed)
	if err != nil {
		c.showError(err)
		return
	}
	if !result.Confirmed {
		c.console.Show("\nCancelling Checkout...\n")
		return
	}

	for _, posting := range result.Postings {
		c.console.Showf("\n%q has earned %.2f for a historic total of %.2f.\n",
			posting.ShopName, posting.Amount, posting.TotalEarnings)
		if posting.BecameRegular {
			c.console.Showf("You are now a regular at %q.\n", posting.ShopName)
		}
	}
	for _, failure := range result.Failures {
		c.console.Showf("\nERROR: could not settle earnings for %q: %s\n", failure.ShopName, failure.Err)
	}
}

func (c *Controller) showError(err error) {
	c.logger.Warn("Operation failed", zap.Error(err))
	c.console.Showf("\nERROR: %s\n", err)
}
