package cli

import (
	"flag"
	"os"

	"github.com/avivsinai/chatsplit/internal/export"
	"github.com/avivsinai/chatsplit/internal/fsq"
)

type bucketItem struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Messages int    `json:"messages"`
	Files    int    `json:"files"`
	Error    string `json:"error,omitempty"`
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	common := addCommonFlags(fs)

	usage := usageWithFlags(fs, "chatsplit list [--json] <export-folder>")
	positional, handled, err := parseArgs(fs, args, usage)
	if err != nil {
		return err
	} else if handled {
		return nil
	}
	root, err := rootArg(common.Root, positional)
	if err != nil {
		return err
	}
	if _, err := export.ResolveRoot(root); err != nil {
		return WithExitCode(ExitError, err)
	}

	items, err := collectBuckets(root)
	if err != nil {
		return WithExitCode(ExitError, err)
	}

	if common.JSON {
		return writeJSON(os.Stdout, items)
	}
	if len(items) == 0 {
		return writeStdoutLine("No buckets.")
	}
	for _, item := range items {
		if item.Error != "" {
			if err := writeStdout("%s  (unreadable: %s)\n", item.Name, item.Error); err != nil {
				return err
			}
			continue
		}
		if err := writeStdout("%s  %d message(s)  %d attachment(s)\n", item.Name, item.Messages, item.Files); err != nil {
			return err
		}
	}
	return nil
}

func collectBuckets(root string) ([]bucketItem, error) {
	names, err := fsq.ListBucketDirs(root)
	if err != nil {
		return nil, err
	}
	items := make([]bucketItem, 0, len(names))
	for _, name := range names {
		item := bucketItem{Name: name, Path: fsq.BucketFile(root, name)}
		files, err := fsq.ListFiles(fsq.BucketDir(root, name))
		if err != nil {
			item.Error = err.Error()
			items = append(items, item)
			continue
		}
		for _, f := range files {
			if f != name+".json" {
				item.Files++
			}
		}
		conv, err := export.ReadFile(item.Path)
		if err != nil {
			item.Error = err.Error()
		} else {
			item.Messages = len(conv.Messages)
		}
		items = append(items, item)
	}
	return items, nil
}
