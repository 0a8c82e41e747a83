package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/nayidisha/nayidisha-client/internal/export"
	"github.com/nayidisha/nayidisha-client/internal/filex"
)

// Export writes the loaded complaint page as a report:
//
//	export pdf
//	export xlsx
//	export detail <id> [image file]
//
// The file lands in the configured export directory and, when a bucket is
// configured, is also uploaded and a download link printed.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: export pdf|xlsx|detail <id> [image file]")
	}

	var (
		buf         bytes.Buffer
		name        string
		contentType string
	)

	switch args[0] {
	case "pdf", "xlsx":
		issues, err := a.exportableIssues(ctx)
		if err != nil {
			return err
		}
		if args[0] == "pdf" {
			name, contentType = export.PDFFilename, export.PDFContentType
			err = export.WritePDF(&buf, issues)
		} else {
			name, contentType = export.XLSXFilename, export.XLSXContentType
			err = export.WriteXLSX(&buf, issues)
		}
		if err != nil {
			return err
		}

	case "detail":
		id, err := idArg(args[1:])
		if err != nil {
			return err
		}
		is, err := a.board.View(ctx, id)
		if err != nil {
			return err
		}

		var image *models.Attachment
		if len(args) > 2 {
			if image, err = filex.ReadAttachment(args[2]); err != nil {
				return err
			}
		}

		name, contentType = export.DetailFilename(id), export.PDFContentType
		if err := export.WriteDetailPDF(&buf, *is, image); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown export format %q", args[0])
	}

	return a.saveReport(ctx, name, contentType, buf.Bytes())
}

// exportableIssues is the loaded page, fetched first when nothing is loaded.
func (a *App) exportableIssues(ctx context.Context) ([]models.Issue, error) {
	issues := a.dispatcher.Store().Snapshot().IssueList.Issues
	if len(issues) == 0 {
		if err := a.board.Load(ctx); err != nil {
			return nil, err
		}
		issues = a.dispatcher.Store().Snapshot().IssueList.Issues
	}
	if len(issues) == 0 {
		return nil, export.ErrNothingToExport
	}
	return issues, nil
}

func (a *App) saveReport(ctx context.Context, name, contentType string, data []byte) error {
	dir, err := filex.EnsureSubdDir(a.config.ExportDir)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.log.Info(ctx, "report written", "path", path, "bytes", len(data))
	fmt.Fprintln(a.out, "Saved", path)

	if a.uploader == nil {
		return nil
	}
	link, err := a.uploader.Upload(ctx, name, contentType, data)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Uploaded:", link)
	return nil
}
