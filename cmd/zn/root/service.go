package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"zenith/internal/config"
	"zenith/internal/engine"
	"zenith/internal/llm"
	"zenith/internal/storage"
)

func openStore(ctx context.Context) (*storage.Store, func(), error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, nil, err
	}

	path := cfg.Storage.Path
	if path == "" {
		path, err = storage.ResolveDBPath()
		if err != nil {
			return nil, nil, err
		}
	}

	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return storage.NewStore(db), cleanup, nil
}

func openService(ctx context.Context) (*engine.Service, func(), error) {
	store, cleanup, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(".")
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	apiKey := config.APIKey()
	if apiKey == "" {
		apiKey, _ = store.APIKey(ctx)
	}

	var opts []engine.Option
	if apiKey != "" {
		var clientOpts []llm.Option
		if cfg.LLM.BaseURL != "" {
			clientOpts = append(clientOpts, llm.WithBaseURL(cfg.LLM.BaseURL))
		}
		if cfg.LLM.Model != "" {
			clientOpts = append(clientOpts, llm.WithModel(cfg.LLM.Model))
		}
		opts = append(opts, engine.WithLLMClient(llm.NewHTTPClient(apiKey, clientOpts...)))
	}
	if cfg.LLM.MaxTokens > 0 || cfg.LLM.Temperature > 0 {
		opts = append(opts, engine.WithGenerationLimits(cfg.LLM.MaxTokens, cfg.LLM.Temperature))
	}

	svc, err := engine.NewService(ctx, store, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// resolveTaskID matches a full or prefix task ID against the given
// lists.
func resolveTaskID(arg string, lists ...[]engine.Task) (uuid.UUID, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if arg == "" {
		return uuid.Nil, fmt.Errorf("task id is required")
	}
	if id, err := uuid.Parse(arg); err == nil {
		return id, nil
	}

	var matches []uuid.UUID
	for _, list := range lists {
		for _, t := range list {
			if strings.HasPrefix(t.ID.String(), arg) {
				matches = append(matches, t.ID)
			}
		}
	}
	switch len(matches) {
	case 0:
		return uuid.Nil, fmt.Errorf("no task matches %q", arg)
	case 1:
		return matches[0], nil
	default:
		return uuid.Nil, fmt.Errorf("%q is ambiguous (%d matches)", arg, len(matches))
	}
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
