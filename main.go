package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"goba/internal/cartridge"
	"goba/internal/emulator"
	"goba/internal/host"
	"goba/rom"
	"goba/util/dbg"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "goba:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "goba [rom]",
		Short: "goba is a Game Boy Advance emulator",
		Args:  cobra.MaximumNArgs(1),
		// Bare `goba test.gba` behaves exactly like `goba run test.gba`;
		// bare `goba` with no ROM just prints help.
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return doRun(cmd, args[0])
		},
	}
	runFlags(root)
	root.AddCommand(runCmd(), infoCmd())
	return root
}

func runFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("headless", false, "run without opening a window, saving the first frame to disk")
	cmd.Flags().Int("scale", 2, "integer upscale factor for the window or saved screenshot")
	cmd.Flags().String("stats-addr", "", "address to serve runtime trace dumps on, e.g. :6060 (empty disables it)")
	cmd.Flags().Bool("no-vsync", false, "disable vsync in windowed mode")
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [rom]",
		Short: "run a ROM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return doRun(cmd, args[0])
		},
	}
	runFlags(cmd)
	return cmd
}

// doRun loads romPath and drives it to completion on whichever host the
// command's flags select; it is shared by the root command's bare-ROM
// shorthand and by `goba run`.
func doRun(cmd *cobra.Command, romPath string) error {
	headless, _ := cmd.Flags().GetBool("headless")
	scale, _ := cmd.Flags().GetInt("scale")
	statsAddr, _ := cmd.Flags().GetString("stats-addr")
	noVsync, _ := cmd.Flags().GetBool("no-vsync")

	image, err := rom.Load(romPath)
	if err != nil {
		return err
	}
	system := emulator.New(image.Data)

	group, ctx := errgroup.WithContext(cmd.Context())

	if statsAddr != "" {
		group.Go(func() error { return serveStats(ctx, statsAddr) })
	}

	group.Go(func() error {
		if headless {
			h := host.NewHeadlessHost(system, scale, "first_frame.png")
			return h.Run()
		}
		return runWindowed(system, scale, romPath, noVsync)
	})

	return group.Wait()
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <rom>",
		Short: "print a ROM's cartridge header without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := rom.Load(args[0])
			if err != nil {
				return err
			}
			h := cartridge.NewCartridge(image.Data).ParseHeader()
			fmt.Printf("Title:      %s\n", h.Title)
			fmt.Printf("Game code:  %s\n", h.GameCode)
			fmt.Printf("Maker code: %s\n", h.MakerCode)
			fmt.Printf("Fixed byte: 0x%02X\n", h.FixedByte)
			fmt.Printf("Checksum:   0x%02X\n", h.Checksum)
			fmt.Printf("ROM size:   %d bytes\n", len(image.Data))
			return nil
		},
	}
}

// serveStats exposes the debug-tag trace log at /debug for attaching a
// profiler-adjacent console while a `--headless` run is in progress; it
// shuts down cleanly when ctx is cancelled by the rest of the errgroup.
func serveStats(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug", func(w http.ResponseWriter, r *http.Request) {
		if err := dbg.Write(w); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	server := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return server.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
