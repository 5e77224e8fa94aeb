package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/shelf/internal/collection"
	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
	"github.com/urfave/cli/v3"
)

// Add inserts a new game. Status defaults to OWNED.
func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	title := strings.TrimSpace(cmd.StringArg("title"))
	if title == "" {
		return fmt.Errorf("%w: title is required", shared.ErrMissingArgument)
	}

	item := models.NewItem(title, "", models.StatusOwned)
	if err := applyItemFlags(cmd, item); err != nil {
		return err
	}

	if err := r.open(); err != nil {
		return err
	}
	if err := r.items.Create(item); err != nil {
		return fmt.Errorf("failed to add %q: %w", title, err)
	}

	r.logger.Info("added item", "id", item.ID, "title", item.Title)

	if cmd.Bool("json") {
		return r.writeJSON(item, true)
	}
	return r.writePlain("✓ Added %s (%s) [%s]\n", item.Title, item.Status.Label(), item.ID)
}

// Update applies the given flags to an existing game.
func (r *Runner) Update(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: item ID is required", shared.ErrMissingArgument)
	}

	if err := r.open(); err != nil {
		return err
	}

	item, err := r.items.Get(id)
	if err != nil {
		return err
	}
	if err := applyItemFlags(cmd, item); err != nil {
		return err
	}
	if err := r.items.Update(item); err != nil {
		return fmt.Errorf("failed to update %s: %w", id, err)
	}

	r.logger.Info("updated item", "id", item.ID)

	if cmd.Bool("json") {
		return r.writeJSON(item, true)
	}
	return r.writePlain("✓ Updated %s (%s)\n", item.Title, item.Status.Label())
}

// Remove soft-deletes a game.
func (r *Runner) Remove(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: item ID is required", shared.ErrMissingArgument)
	}

	if err := r.open(); err != nil {
		return err
	}
	if err := r.items.Delete(id); err != nil {
		return err
	}

	r.logger.Info("removed item", "id", id)
	return r.writePlain("✓ Removed %s\n", id)
}

// applyItemFlags copies every flag the user set onto item.
func applyItemFlags(cmd *cli.Command, item *models.Item) error {
	if cmd.IsSet("title") {
		item.Title = strings.TrimSpace(cmd.String("title"))
	}
	if cmd.IsSet("platform") {
		item.Platform = strings.TrimSpace(cmd.String("platform"))
	}
	if cmd.IsSet("status") {
		status, err := models.ParseStatus(cmd.String("status"))
		if err != nil {
			return err
		}
		item.Status = status
	}
	if cmd.IsSet("paid") {
		item.PricePaid = cmd.Float("paid")
	}
	if cmd.IsSet("sold") {
		item.PriceSold = cmd.Float("sold")
	}
	if cmd.IsSet("tags") {
		item.Tags = shared.SplitList(cmd.String("tags"))
	}
	if cmd.IsSet("metacritic") {
		item.Metacritic = models.Metascore(cmd.Int("metacritic"))
	}
	if cmd.IsSet("image") {
		item.ImageURL = strings.TrimSpace(cmd.String("image"))
	}
	return item.Validate()
}

// viewQuery reads the shared view flags.
func viewQuery(cmd *cli.Command) collection.Query {
	return collection.Query{
		Tab:        cmd.String("tab"),
		Search:     strings.TrimSpace(cmd.String("search")),
		Platform:   cmd.String("platform"),
		Sort:       cmd.String("sort"),
		Platforms:  shared.SplitList(cmd.String("platforms")),
		Statuses:   shared.SplitList(cmd.String("statuses")),
		Tags:       shared.SplitList(cmd.String("tags")),
		Price:      cmd.String("price"),
		Metacritic: cmd.String("metacritic"),
	}
}

// loadView builds a store from the database and applies q.
func (r *Runner) loadView(q collection.Query) (*collection.Store, error) {
	if q.Sort == "" {
		q.Sort = r.config.View.DefaultSort
	}

	patch, err := q.Patch(r.engine)
	if err != nil {
		return nil, err
	}

	if err := r.open(); err != nil {
		return nil, err
	}
	items, err := r.items.All()
	if err != nil {
		return nil, err
	}

	store := collection.NewStore(r.pageSize())
	store.SetItems(items)
	store.SetState(patch)
	return store, nil
}

// List prints one page of the filtered collection, plus any extra pages requested with --more.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	q := viewQuery(cmd)
	q.Limit = cmd.Int("limit")

	store, err := r.loadView(q)
	if err != nil {
		return err
	}

	pager := collection.NewPager(store)
	for range cmd.Int("more") {
		if !pager.Advance(store.View(r.engine).MatchCount) {
			break
		}
	}

	view := store.View(r.engine)
	if cmd.Bool("json") {
		return r.writeJSON(view, cmd.Bool("pretty"))
	}

	if view.Empty {
		return r.writePlain("No games match.\n")
	}

	r.writePlain("%s\n", itemTable(view.Items, r.config.Profile.Currency))
	r.writePlain("%d of %d", len(view.Items), view.MatchCount)
	if view.HasMore() {
		r.writePlain(" (use --more or --limit to see more)")
	}
	return r.writePlain("\n")
}

func itemTable(items []models.Item, currency string) string {
	rows := make([][]string, len(items))
	for i, it := range items {
		score := "-"
		if it.Metacritic != nil {
			score = strconv.Itoa(*it.Metacritic)
		}
		rows[i] = []string{
			it.ID,
			it.Title,
			it.Platform,
			it.Status.Label(),
			shared.FormatMoney(it.ActivePrice(), currency),
			score,
			strings.Join(it.Tags, ", "),
		}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "PLATFORM", "STATUS", "PRICE", "MC", "TAGS").
		Rows(rows...).
		String()
}

// Stats prints KPIs over the whole collection.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}
	items, err := r.items.All()
	if err != nil {
		return err
	}

	stats := collection.Summarize(items)
	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	money := func(v float64) string { return shared.FormatMoney(v, r.config.Profile.Currency) }

	r.writePlainHeader(r.config.Profile.Name)
	r.writePlain("Games:       %d\n", stats.TotalCount)
	r.writePlain("Invested:    %s\n", money(stats.InvestedTotal))
	r.writePlain("Recovered:   %s\n", money(stats.RecoveredTotal))
	r.writePlain("Completion:  %d%%\n", stats.CompletionRate)
	r.writePlain("Wishlist:    %s\n", money(stats.WishlistEstimate))
	r.writePlain("For sale:    %s\n", money(stats.StorefrontPotential))

	if len(stats.ByPlatform) == 0 {
		return nil
	}

	r.writePlainln("Platforms")
	for _, p := range stats.ByPlatform {
		if err := r.writePlain("  %-12s %d\n", p.Platform, p.Count); err != nil {
			return err
		}
	}
	return nil
}
