package advisor

import (
	"context"
	"log/slog"

	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/entity"
)

const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

type remoteClient interface {
	RequestMove(ctx context.Context, board entity.Board, mark string) (int, error)
}

// Advisor tries the remote channel once and falls back to the heuristic.
// It never fails: a full board yields (NoMove, SourceFallback).
type Advisor struct {
	logger    *slog.Logger
	remote    remoteClient
	heuristic *Heuristic
}

func New(logger *slog.Logger, remote remoteClient, heuristic *Heuristic) *Advisor {
	return &Advisor{
		logger:    logger,
		remote:    remote,
		heuristic: heuristic,
	}
}

// AdviseMove - returns the suggested cell and which channel produced it.
func (that *Advisor) AdviseMove(ctx context.Context, board entity.Board, mark string) (int, string) {
	log := that.logger.With("method", "AdviseMove")

	cell, err := that.remote.RequestMove(ctx, board, mark)
	if err == nil {
		log.Info("remote advisor suggested move", "cell", cell)
		return cell, SourceRemote
	}

	log.Info("remote advisor failed, using fallback", "error", err)

	return that.heuristic.SuggestMove(board, mark), SourceFallback
}
