package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/posterboard/internal/client/models"
)

func (a *App) Profile(ctx context.Context) error {
	p, err := a.api.Profile(ctx)
	if err != nil {
		return err
	}
	a.printProfile(p)
	return nil
}

func (a *App) Interests(ctx context.Context, titles []string) error {
	p, err := a.api.AddInterests(ctx, titles)
	if err != nil {
		return err
	}
	a.printProfile(p)
	return nil
}

func (a *App) Categories(ctx context.Context) error {
	list, err := a.api.Categories(ctx)
	if err != nil {
		return err
	}
	a.printCategories(list)
	return nil
}

func (a *App) Search(ctx context.Context, prefix string) error {
	list, err := a.api.Search(ctx, prefix)
	if err != nil {
		return err
	}
	a.printCategories(list)
	return nil
}

// Upload sends a local image and prints its public URL.
func (a *App) Upload(ctx context.Context, path string) error {
	imageData, err := readDataURL(path)
	if err != nil {
		return err
	}
	asset, err := a.api.Upload(ctx, imageData)
	if err != nil {
		return err
	}
	a.println(asset.URL)
	return nil
}

func (a *App) printCategories(list []models.Category) {
	if len(list) == 0 {
		a.println("(none)")
		return
	}
	for _, c := range list {
		a.println("-", c.Title)
	}
}

func (a *App) printProfile(p *models.Profile) {
	a.println(p.DisplayName, "<"+p.Email+">")
	if p.ProfilePic != nil {
		a.println("picture:", p.ProfilePic.URL)
	}

	titles := make([]string, 0, len(p.InterestingCategories))
	for _, c := range p.InterestingCategories {
		titles = append(titles, c.Title)
	}
	a.println("interests:", strings.Join(titles, ", "))
	a.println("posters:", len(p.MyPosters), "saved:", len(p.SavedPosters))
}
