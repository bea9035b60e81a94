// Picshelf CLI - browse and organize a folder of captioned images.
//
// Captions live in sidecar .txt files next to each image; metadata is
// cached in a JSON file so images are only decoded once.
//
// Usage:
//
//	picshelf                                    # list images in the library dir
//	picshelf -sort modified                     # newest first
//	picshelf -search cat                        # caption substring filter
//	picshelf -op move -dest /backup a.png b.png
//	picshelf -op append -text " dog" -policy captioned
//	picshelf -op replace -find dog -replace-with cat -commit
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/picshelf/picshelf/gallery/application"
	"github.com/picshelf/picshelf/gallery/domain"
	"github.com/picshelf/picshelf/gallery/persistence"
	"github.com/picshelf/picshelf/shared/config"
)

// operations maps the -op flag to batch operations.
var operations = map[string]domain.Operation{
	"move":    domain.OpMove,
	"copy":    domain.OpCopy,
	"delete":  domain.OpDelete,
	"set":     domain.OpSetCaption,
	"append":  domain.OpAppendCaption,
	"prepend": domain.OpPrependCaption,
	"clear":   domain.OpClearCaption,
	"replace": domain.OpReplaceCaption,
}

func main() {
	cfg := config.Load()

	dir := flag.String("dir", cfg.LibraryDir, "Directory to scan for images")
	cacheFile := flag.String("cache", cfg.CacheFile, "Path of the JSON metadata cache")
	sortMode := flag.String("sort", "name", "Listing order: name, modified, size")
	search := flag.String("search", "", "Only list images whose caption contains this text")

	op := flag.String("op", "", "Batch operation: move, copy, delete, set, append, prepend, clear, replace")
	dest := flag.String("dest", "", "Destination folder for move/copy")
	text := flag.String("text", "", "Caption text for set/append/prepend")
	find := flag.String("find", "", "Search text for replace")
	replaceWith := flag.String("replace-with", "", "Replacement text for replace")
	matchCase := flag.Bool("match-case", false, "Case-sensitive matching for replace")
	policy := flag.String("policy", "", "Selection policy for caption ops: all, selected, captioned")
	commit := flag.Bool("commit", false, "Commit staged caption edits after the operation")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Picshelf - image library with caption sidecars\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  %s [options] [image paths]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nWithout -op, lists the images in -dir. With -op and no image\n")
		fmt.Fprintf(os.Stderr, "paths, the operation runs over the whole listing.\n")
	}

	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cache, err := persistence.OpenMetadataCache(*cacheFile)
	if err != nil {
		log.Error().Err(err).Str("file", *cacheFile).Msg("Failed to open metadata cache")
		os.Exit(1)
	}

	lib := application.NewLibrary(cache, persistence.NewCaptionStore())

	if *op == "" {
		if err := listImages(lib, *dir, *sortMode, *search); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}

	operation, ok := operations[*op]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown operation %q\n", *op)
		flag.Usage()
		os.Exit(2)
	}

	// Explicit paths are the selection; otherwise operate on the listing.
	paths := flag.Args()
	if len(paths) == 0 {
		paths, err = lib.Scan(*dir, application.ScanOptions{Sort: application.SortMode(*sortMode)})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}

	selected := make(map[string]bool, len(flag.Args()))
	for _, p := range flag.Args() {
		selected[p] = true
	}

	res := lib.ExecuteBatch(operation, paths, domain.BatchParams{
		DestDir:   *dest,
		Text:      *text,
		Search:    *find,
		Replace:   *replaceWith,
		MatchCase: *matchCase,
		Policy:    domain.SelectionPolicy(*policy),
		Selected:  selected,
	})

	fmt.Printf("Processed %d of %d images\n", res.Processed, len(paths))
	for _, f := range res.Failures {
		fmt.Fprintf(os.Stderr, "  failed: %s: %v\n", f.Path, f.Err)
	}

	if *commit {
		committed := lib.CommitPending()
		fmt.Printf("Committed %d caption edits\n", committed.Processed)
		for _, f := range committed.Failures {
			fmt.Fprintf(os.Stderr, "  failed: %s: %v\n", f.Path, f.Err)
		}
	} else if staged := len(lib.Pending()); staged > 0 {
		fmt.Printf("%d caption edits staged; rerun with -commit to write them\n", staged)
	}
}

func listImages(lib *application.Library, dir, sortMode, search string) error {
	paths, err := lib.Scan(dir, application.ScanOptions{
		Sort:   application.SortMode(sortMode),
		Search: search,
	})
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		fmt.Println("No images found")
		return nil
	}

	for _, p := range paths {
		rec, err := lib.Info(p)
		if err != nil {
			continue
		}

		caption := rec.Caption
		if caption != "" {
			caption = "  " + strings.ReplaceAll(caption, "\n", " ")
		}

		fmt.Printf("%s  %dx%d %s  %.1f KB%s\n",
			p, rec.Width, rec.Height, rec.Format, float64(rec.FileSize)/1024, caption)
	}

	return nil
}
