// Command pdsctl is a thin shell over an entitymgr.Manager: add a demo
// document, load one back out by hash, sweep the cache, or validate a
// document without ever touching disk.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"pds/config"
	"pds/demo"
	"pds/entitymgr"
	"pds/hashid"
	"pds/logger"
	"pds/validate"
)

func hashAlgorithm(cfg *config.Config) hashid.Algorithm {
	if cfg.HashAlgorithm == config.HashXXH128x2 {
		return hashid.XXH128x2
	}
	return hashid.SHA256
}

func openManager(cmd *cli.Command) (*entitymgr.Manager, error) {
	cfg := config.Load()
	if path := cmd.String("store"); path != "" {
		cfg.DataPath = path
	}
	if err := os.MkdirAll(cfg.DataPath, 0o755); err != nil {
		return nil, fmt.Errorf("unable to prepare store directory: %w", err)
	}
	mgr := entitymgr.New(
		entitymgr.WithHashAlgorithm(hashAlgorithm(cfg)),
		entitymgr.WithInitialWriteReservation(cfg.InitialWriteReservation),
		entitymgr.WithCacheBounds(cfg.MaxCacheEntries, cfg.MaxCacheMemoryBytes),
	)
	if err := mgr.Initialize(cfg.DataPath, []entitymgr.PackageRecord{demo.Record{}}); err != nil {
		return nil, fmt.Errorf("unable to initialize entity manager: %w", err)
	}
	return mgr, nil
}

func runAdd(ctx context.Context, cmd *cli.Command) error {
	mgr, err := openManager(cmd)
	if err != nil {
		return err
	}
	title := cmd.String("title")
	if title == "" {
		title = "untitled"
	}
	doc := demo.NewDocument(title)
	h, err := mgr.AddEntity(doc)
	if err != nil {
		return fmt.Errorf("unable to add document: %w", err)
	}
	logger.Info("pdsctl: added document %q as %s", title, h)
	fmt.Println(h.String())
	return nil
}

func runLoad(ctx context.Context, cmd *cli.Command) error {
	mgr, err := openManager(cmd)
	if err != nil {
		return err
	}
	h, err := hashid.FromHex(cmd.Args().First())
	if err != nil {
		return fmt.Errorf("invalid hash argument: %w", err)
	}
	handle, err := mgr.LoadEntity(h)
	if err != nil {
		return fmt.Errorf("unable to load %s: %w", h, err)
	}
	defer handle.Release()
	doc, ok := handle.Entity().(*demo.Document)
	if !ok {
		return fmt.Errorf("entity %s is not a demo.document", h)
	}
	fmt.Printf("title=%q items=%d\n", doc.Title, doc.Items.Len())
	return nil
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	doc := demo.NewDocument(cmd.String("title"))
	v := validate.New()
	v.SetRecordErrorDescriptions(true)
	doc.Validate(v)
	if v.GetErrorCount() == 0 {
		fmt.Println("ok")
		return nil
	}
	for _, d := range v.GetErrorDescriptions() {
		fmt.Printf("%s: %s\n", d.Flag, d.Description)
	}
	return fmt.Errorf("validation failed with %d error(s)", v.GetErrorCount())
}

func runUnload(ctx context.Context, cmd *cli.Command) error {
	mgr, err := openManager(cmd)
	if err != nil {
		return err
	}
	mgr.UnloadNonReferencedEntities()
	fmt.Println("ok")
	return nil
}

func main() {
	logger.Configure()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "pdsctl",
		Usage: "inspect and manipulate a pds content-addressed entity store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "store", Aliases: []string{"s"}, Value: "./pds-store", Usage: "path to the entity store directory"},
		},
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "add a new demo document to the store",
				Action: runAdd,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "document title"},
				},
			},
			{
				Name:      "load",
				Usage:     "load a document by hash",
				Action:    runLoad,
				ArgsUsage: "HASH",
			},
			{
				Name:   "validate",
				Usage:  "validate a freshly constructed document without writing it",
				Action: runValidate,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "document title"},
				},
			},
			{
				Name:   "unload",
				Usage:  "evict every non-referenced entity from the cache",
				Action: runUnload,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pdsctl: %v\n", err)
		os.Exit(1)
	}
}
