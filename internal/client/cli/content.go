package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/secondbrain/internal/client/models"
)

const usageFilter = "Usage: filter [type=<t>] [search=<text>] [tag=<tag>] | filter reset"

func (a *App) printContent(c models.Content) {
	fmt.Fprintf(a.out, "[%s] %s (%s)\n", c.ID, c.Title, c.Type)
	if len(c.Tags) > 0 {
		fmt.Fprintf(a.out, "  tags: %s\n", strings.Join(c.Tags, ", "))
	}
}

func (a *App) printList(items []models.Content) {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No content")
		return
	}
	for _, c := range items {
		a.printContent(c)
	}
}

func (a *App) List(ctx context.Context, _ []string) error {
	if err := a.state.Contents.FetchContents(ctx); err != nil {
		return err
	}
	a.printList(a.state.Contents.Contents())
	return nil
}

// Filter merges key=value pairs into the active filter and lists the result.
func (a *App) Filter(ctx context.Context, args []string) error {
	if len(args) == 1 && args[0] == "reset" {
		if err := a.state.Contents.ResetFilter(ctx); err != nil {
			return err
		}
		a.printList(a.state.Contents.Contents())
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("%s", usageFilter)
	}

	var f models.ContentFilter
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || value == "" {
			return fmt.Errorf("%s", usageFilter)
		}
		switch key {
		case "type":
			f.Type = value
		case "search":
			f.Search = value
		case "tag":
			f.Tag = value
		default:
			return fmt.Errorf("%s", usageFilter)
		}
	}

	if err := a.state.Contents.SetFilter(ctx, f); err != nil {
		return err
	}
	a.printList(a.state.Contents.Contents())
	return nil
}

// idArg returns args[0] or prompts for an id.
func (a *App) idArg(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "Enter content id to show")
	if err != nil {
		return err
	}

	c, err := a.state.Contents.FetchContent(ctx, id)
	if err != nil {
		return err
	}

	a.printContent(*c)
	if c.URL != "" {
		fmt.Fprintf(a.out, "  url: %s\n", c.URL)
	}
	fmt.Fprintf(a.out, "  updated: %s\n\n%s\n", c.UpdatedAt.Local().Format("2006-01-02 15:04"), c.Body)
	return nil
}

// inputContent prompts for every field, offering base values as defaults.
func (a *App) inputContent(base models.ContentPayload) (models.ContentPayload, error) {
	p := base

	ask := func(prompt, current string) (string, error) {
		if current != "" {
			prompt = fmt.Sprintf("%s [%s]", prompt, current)
		}
		v, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil || v == "" {
			return current, err
		}
		return v, nil
	}

	var err error
	if p.Title, err = ask("Title", p.Title); err != nil {
		return p, err
	}
	if p.Type, err = ask("Type (youtube, twitter, task, blog, other)", p.Type); err != nil {
		return p, err
	}
	if p.URL, err = ask("URL", p.URL); err != nil {
		return p, err
	}
	tags, err := ask("Tags, comma separated", strings.Join(p.Tags, ","))
	if err != nil {
		return p, err
	}
	p.Tags = SplitList(tags)

	body, err := getMultiline(a.reader, "Content", a.out)
	if err != nil {
		return p, err
	}
	if body != "" {
		p.Body = body
	}
	return p, nil
}

func (a *App) Add(ctx context.Context, _ []string) error {
	p, err := a.inputContent(models.ContentPayload{Type: "other"})
	if err != nil {
		return err
	}

	c, err := a.state.Contents.Create(ctx, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Content saved successfully: %s\n", c.ID)
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "Enter content id to edit")
	if err != nil {
		return err
	}

	current, err := a.state.Contents.FetchContent(ctx, id)
	if err != nil {
		return err
	}

	p, err := a.inputContent(models.PayloadOf(*current))
	if err != nil {
		return err
	}

	if _, err := a.state.Contents.Update(ctx, id, p); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Content updated successfully")
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "Enter content id to delete")
	if err != nil {
		return err
	}

	if err := a.state.Contents.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Content deleted successfully")
	return nil
}

func (a *App) Tags(ctx context.Context, _ []string) error {
	if err := a.state.Contents.FetchTags(ctx); err != nil {
		return err
	}
	tags := a.state.Contents.Tags()
	if len(tags) == 0 {
		fmt.Fprintln(a.out, "No tags")
		return nil
	}
	fmt.Fprintln(a.out, strings.Join(tags, ", "))
	return nil
}
