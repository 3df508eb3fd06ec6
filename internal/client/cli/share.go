package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/secondbrain/internal/client/models"
	"github.com/dmitrijs2005/secondbrain/internal/netx"
)

// Share creates a public link for the given content ids.
func (a *App) Share(ctx context.Context, args []string) error {
	ids := args
	if len(ids) == 0 {
		line, err := getSimpleText(a.reader, "Content ids to share, comma separated", a.out)
		if err != nil {
			return err
		}
		ids = SplitList(line)
	}

	answer, err := getSimpleText(a.reader, "Expires in hours (empty for never)", a.out)
	if err != nil {
		return err
	}
	hours, err := ParseHours(answer)
	if err != nil {
		return err
	}

	res, err := a.api.Share(ctx, models.ShareRequest{ContentIDs: ids, ExpiresIn: hours})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Share link: %s\n", res.ShareLink)
	if res.ExpiresAt != nil {
		fmt.Fprintf(a.out, "Expires at: %s\n", res.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// Open resolves a share id (or a full share link) and prints its notes.
func (a *App) Open(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "Enter share id or link")
	if err != nil {
		return err
	}
	if i := strings.LastIndex(id, "/share/"); i >= 0 {
		id = id[i+len("/share/"):]
	}

	brain, err := a.api.SharedBrain(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Shared by %s\n", brain.SharedBy)
	a.printList(brain.Contents)
	return nil
}

// download is a test seam for netx.Download.
var download = netx.Download

// Export asks the server for a full export and optionally saves it locally.
func (a *App) Export(ctx context.Context, _ []string) error {
	res, err := a.api.Export(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Export ready: %s\n(valid until %s)\n", res.URL, res.ExpiresAt.Local().Format("2006-01-02 15:04"))

	path, err := getSimpleText(a.reader, "Save to file (empty to skip)", a.out)
	if err != nil || path == "" {
		return err
	}

	data, err := download(ctx, a.http, res.URL)
	if err != nil {
		return fmt.Errorf("download export: %w", err)
	}
	if err := os.WriteFile(filepath.Clean(path), data, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", len(data), path)
	return nil
}
