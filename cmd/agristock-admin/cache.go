package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key prefixes written by the running service.
const (
	alertDedupeKeyPattern   = "alert:*"
	overviewCacheKeyPattern = "dashboard:overview:*"
)

type alertKeyClearOptions struct {
	Kind   string
	DryRun bool
	Yes    bool
}

type overviewClearOptions struct {
	UserID string
	DryRun bool
	Yes    bool
}

func runListAlertKeys(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list-alert-keys", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	kind := fs.String("kind", "", "Optional alert kind filter (low_stock|maintenance_due)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	redisClient, err := requireRedis(cmdCtx)
	if err != nil || redisClient == nil {
		return err
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	pattern := alertKeyPattern(*kind)
	cmdCtx.Logger.Info("scanning redis", "pattern", pattern)

	if headerErr := writef(os.Stdout, "\nAlert Dedupe Keys in Redis\n"); headerErr != nil {
		return fmt.Errorf("print alert key header: %w", headerErr)
	}

	total, err := writeKeysWithTTL(ctx, redisClient, pattern, cmdCtx.Logger)
	if err != nil {
		return err
	}

	if total == 0 {
		if noneErr := writeln(os.Stdout, "(no keys found)"); noneErr != nil {
			return fmt.Errorf("print alert key none: %w", noneErr)
		}
		return nil
	}

	if totalErr := writef(os.Stdout, "\nTotal keys: %d\n", total); totalErr != nil {
		return fmt.Errorf("print alert key total: %w", totalErr)
	}
	return nil
}

func runClearAlertKeys(cmdCtx *commandContext, args []string) error {
	opts, err := parseAlertKeyClearFlags(args)
	if err != nil {
		return err
	}
	if !opts.DryRun {
		if confirmErr := confirmAction(confirmOptions{
			yes:    opts.Yes,
			target: "the configured Redis instance",
		}, "delete alert deduplication keys"); confirmErr != nil {
			return confirmErr
		}
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	redisClient, err := requireRedis(cmdCtx)
	if err != nil || redisClient == nil {
		return err
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	return clearKeysByPattern(&clearKeysRequest{
		Ctx:     ctx,
		Logger:  cmdCtx.Logger,
		Redis:   redisClient,
		Pattern: alertKeyPattern(opts.Kind),
		DryRun:  opts.DryRun,
		Label:   "alert dedupe",
	})
}

func runClearOverviewCache(cmdCtx *commandContext, args []string) error {
	opts, err := parseOverviewClearFlags(args)
	if err != nil {
		return err
	}
	if !opts.DryRun {
		if confirmErr := confirmAction(confirmOptions{
			yes:    opts.Yes,
			target: "the configured Redis instance",
		}, "delete cached dashboard overviews"); confirmErr != nil {
			return confirmErr
		}
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	redisClient, err := requireRedis(cmdCtx)
	if err != nil || redisClient == nil {
		return err
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	pattern := overviewCacheKeyPattern
	if opts.UserID != "" {
		pattern = "dashboard:overview:" + opts.UserID
	}

	return clearKeysByPattern(&clearKeysRequest{
		Ctx:     ctx,
		Logger:  cmdCtx.Logger,
		Redis:   redisClient,
		Pattern: pattern,
		DryRun:  opts.DryRun,
		Label:   "overview cache",
	})
}

// requireRedis connects Redis only; a nil client with nil error means the
// command printed a notice and should exit cleanly.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func requireRedis(cmdCtx *commandContext) (redis.UniversalClient, error) {
	_, redisClient, err := connectInfraWithOptions(&connectInfraOptions{
		Logger:    cmdCtx.Logger,
		Config:    &cmdCtx.Config,
		WantDB:    false,
		WantRedis: true,
	})
	if err != nil {
		return nil, err
	}
	if redisClient == nil {
		if writeErr := writeln(os.Stderr, "Redis client is not available"); writeErr != nil {
			return nil, fmt.Errorf("print redis availability: %w", writeErr)
		}
		return nil, nil
	}
	return redisClient, nil
}

func alertKeyPattern(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return alertDedupeKeyPattern
	}
	return "alert:" + kind + ":*"
}

func writeKeysWithTTL(
	ctx context.Context,
	client redis.UniversalClient,
	pattern string,
	logger *slog.Logger,
) (int, error) {
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	if iter == nil {
		return 0, errors.New("redis scan: nil iterator")
	}

	total := 0
	for iter.Next(ctx) {
		key := iter.Val()
		total++

		ttl, ttlErr := client.TTL(ctx, key).Result()
		if ttlErr != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to fetch TTL", "key", key, "error", ttlErr)
			}
			if printErr := writef(os.Stdout, "  %s (TTL: error: %v)\n", key, ttlErr); printErr != nil {
				return 0, fmt.Errorf("print key ttl error: %w", printErr)
			}
			continue
		}
		if printErr := writef(os.Stdout, "  %s (TTL: %s)\n", key, renderTTL(ttl)); printErr != nil {
			return 0, fmt.Errorf("print key ttl: %w", printErr)
		}
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan: %w", err)
	}
	return total, nil
}

type clearKeysRequest struct {
	Ctx     context.Context
	Logger  *slog.Logger
	Redis   redis.UniversalClient
	Pattern string
	DryRun  bool
	Label   string
}

type clearKeysStats struct {
	total    int
	deleted  int64
	failures int
}

func clearKeysByPattern(req *clearKeysRequest) error {
	if req.Logger != nil {
		req.Logger.Info("scanning redis", "pattern", req.Pattern, "dry_run", req.DryRun)
	}

	const batchCap = 1000
	iter := req.Redis.Scan(req.Ctx, 0, req.Pattern, 100).Iterator()
	batch := make([]string, 0, batchCap)
	stats := clearKeysStats{}

	for iter.Next(req.Ctx) {
		stats.total++
		batch = append(batch, iter.Val())
		if len(batch) == batchCap {
			flushKeyBatch(req, batch, &stats)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	flushKeyBatch(req, batch, &stats)

	return printClearKeysSummary(req, stats)
}

func flushKeyBatch(req *clearKeysRequest, batch []string, stats *clearKeysStats) {
	if len(batch) == 0 {
		return
	}
	if req.DryRun {
		stats.deleted += int64(len(batch))
		if req.Logger != nil {
			req.Logger.Info("dry-run skipping delete", "label", req.Label, "count", len(batch))
		}
		return
	}
	n, delErr := req.Redis.Del(req.Ctx, batch...).Result()
	if delErr != nil {
		stats.failures++
		if req.Logger != nil {
			req.Logger.Error("failed to delete keys", "label", req.Label, "count", len(batch), "error", delErr)
		}
		return
	}
	stats.deleted += n
}

func printClearKeysSummary(req *clearKeysRequest, stats clearKeysStats) error {
	if stats.total == 0 {
		if err := writef(os.Stdout, "No %s keys found in Redis\n", req.Label); err != nil {
			return fmt.Errorf("print clear summary: %w", err)
		}
		return nil
	}
	if req.DryRun {
		if err := writef(os.Stdout, "Dry-run: would delete %d/%d keys\n", stats.deleted, stats.total); err != nil {
			return fmt.Errorf("print dry run summary: %w", err)
		}
		return nil
	}
	if err := writef(os.Stdout, "Deleted %d/%d %s keys\n", stats.deleted, stats.total, req.Label); err != nil {
		return fmt.Errorf("print clear summary: %w", err)
	}
	if stats.failures > 0 {
		if err := writef(os.Stdout, "Failed batches: %d\n", stats.failures); err != nil {
			return fmt.Errorf("print clear failures: %w", err)
		}
	}
	return nil
}

func parseAlertKeyClearFlags(args []string) (alertKeyClearOptions, error) {
	fs := flag.NewFlagSet("clear-alert-keys", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts alertKeyClearOptions
	fs.StringVar(&opts.Kind, "kind", "", "Optional alert kind filter (low_stock|maintenance_due)")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Print actions without executing")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return alertKeyClearOptions{}, err
	}
	return opts, nil
}

func parseOverviewClearFlags(args []string) (overviewClearOptions, error) {
	fs := flag.NewFlagSet("clear-overview-cache", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts overviewClearOptions
	fs.StringVar(&opts.UserID, "user-id", "", "Clear only the overview cached for one user")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Print actions without executing")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return overviewClearOptions{}, err
	}
	opts.UserID = strings.TrimSpace(opts.UserID)
	return opts, nil
}

func renderTTL(d time.Duration) string {
	switch {
	case d == -1*time.Second:
		return "no expiry"
	case d == -2*time.Second:
		return "key missing"
	default:
		return d.String()
	}
}
