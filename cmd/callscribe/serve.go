package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/callscribe"
	cshttp "github.com/fwojciec/callscribe/http"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Run executes the serve command. It serves until the context is
// cancelled, then stops any active run and waits for its index to be
// written before returning.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if err := deps.Runner.Restore(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "warning: could not restore checkpoint: %s\n", callscribe.ErrorMessage(err))
	}

	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	// Runs outlive the request that started them and end through Stop.
	api := cshttp.NewServer(deps.Runner, deps.Sources,
		cshttp.WithLogger(deps.Logger),
		cshttp.WithBaseContext(context.WithoutCancel(deps.Ctx)),
	)
	srv := &http.Server{
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintf(deps.Stdout, "Listening on http://%s\n", ln.Addr())

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		deps.Runner.Stop()
		deps.Runner.Wait()

		// Event streams only end when the hub closes.
		_ = api.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
