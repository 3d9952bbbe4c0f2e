package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/entity"
)

var (
	ErrAdvisorTimeout     = errors.New("advisor timed out")
	ErrAdvisorUnavailable = errors.New("advisor unavailable")
	ErrInvalidResponse    = errors.New("invalid advisor response")
)

// RemoteClient asks a Gemini-style inference endpoint for a single move.
// One attempt per call; the caller decides what to do when it fails.
type RemoteClient struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
	timeout    time.Duration
}

func NewRemoteClient(endpoint, apiKey, model string, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		httpClient: &http.Client{},
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		model:      model,
		timeout:    timeout,
	}
}

type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// RequestMove - asks the endpoint for a move and validates it against the board.
func (that *RemoteClient) RequestMove(ctx context.Context, board entity.Board, mark string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, that.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Contents: []requestContent{{Parts: []requestPart{{Text: buildPrompt(board, mark)}}}},
	})
	if err != nil {
		return NoMove, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", that.endpoint, that.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return NoMove, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", that.apiKey)

	resp, err := that.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return NoMove, fmt.Errorf("%w: no answer within %s", ErrAdvisorTimeout, that.timeout)
		}

		return NoMove, fmt.Errorf("%w: %w", ErrAdvisorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return NoMove, fmt.Errorf("%w: status %d", ErrAdvisorUnavailable, resp.StatusCode)
	}

	var parsed generateResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		// the deadline can also elapse mid-body
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return NoMove, fmt.Errorf("%w: no answer within %s", ErrAdvisorTimeout, that.timeout)
		}

		return NoMove, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return NoMove, fmt.Errorf("%w: no candidates", ErrInvalidResponse)
	}

	return parseMove(parsed.Candidates[0].Content.Parts[0].Text, board)
}

// parseMove accepts either a single-element numeric JSON array or free text
// containing a digit, then checks range and cell occupancy.
func parseMove(text string, board entity.Board) (int, error) {
	text = strings.TrimSpace(text)

	move := NoMove

	var numbers []json.Number
	if err := json.Unmarshal([]byte(text), &numbers); err == nil && len(numbers) == 1 {
		if n, err := numbers[0].Int64(); err == nil {
			move = int(n)
		}
	}

	if move == NoMove {
		for _, r := range text {
			if r >= '0' && r <= '9' {
				move, _ = strconv.Atoi(string(r))
				break
			}
		}
	}

	if move < 0 || move >= entity.BoardSize {
		return NoMove, fmt.Errorf("%w: no cell in %q", ErrInvalidResponse, text)
	}

	if board[move] != entity.EmptyCell {
		return NoMove, fmt.Errorf("%w: cell %d is occupied", ErrInvalidResponse, move)
	}

	return move, nil
}

func buildPrompt(board entity.Board, mark string) string {
	symbol := "X"
	opponentSymbol := "O"
	if mark == entity.PlayerCircle {
		symbol, opponentSymbol = opponentSymbol, symbol
	}

	var sb strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("\n---------\n")
		}

		for col := 0; col < 3; col++ {
			if col > 0 {
				sb.WriteString(" | ")
			}

			cell := row*3 + col
			switch board[cell] {
			case entity.PlayerCross:
				sb.WriteString("X")
			case entity.PlayerCircle:
				sb.WriteString("O")
			default:
				sb.WriteString(strconv.Itoa(cell))
			}
		}
	}

	return fmt.Sprintf(`You are an expert Tic Tac Toe player. You are playing as %s (%s).

Current board state:
%s

Empty positions are shown as numbers 0-8.

Your task: Choose the BEST move for %s.

Strategy priority:
1. Win immediately if possible
2. Block opponent from winning (%s)
3. Take center (position 4) if empty
4. Take corners (0, 2, 6, 8)
5. Take edges (1, 3, 5, 7)

IMPORTANT: Respond with ONLY a single number (0-8) representing your move. Nothing else.`,
		symbol, mark, sb.String(), symbol, opponentSymbol)
}
