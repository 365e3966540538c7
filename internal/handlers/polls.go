package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/roomkit/backend/internal/auth"
	"example.com/roomkit/backend/internal/models"
	"example.com/roomkit/backend/internal/notifications"
	"example.com/roomkit/backend/internal/repository"
)

type PollHandler struct {
	Polls    *repository.PollRepository
	Notifier *notifications.Hub
}

// NewPollHandler создает обработчик опросов по датам встреч.
func NewPollHandler(polls *repository.PollRepository, notifier *notifications.Hub) *PollHandler {
	return &PollHandler{Polls: polls, Notifier: notifier}
}

type CreatePollRequest struct {
	Title string   `json:"title" validate:"required,max=200"`
	Dates []string `json:"dates" validate:"required,min=1,max=60,dive,required"`
}

type CastVotesRequest struct {
	VoterName string            `json:"voter_name" validate:"required,max=100"`
	Votes     map[string]string `json:"votes" validate:"required,min=1"`
}

type PollResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	IsClosed  bool      `json:"is_closed"`
	Dates     []string  `json:"dates"`
	CreatedAt time.Time `json:"created_at"`
}

type PollVoteResponse struct {
	VoterName string            `json:"voter_name"`
	Date      string            `json:"date"`
	Choice    models.VoteChoice `json:"choice"`
}

type DateTally struct {
	Date  string `json:"date"`
	Yes   int    `json:"yes"`
	Maybe int    `json:"maybe"`
	No    int    `json:"no"`
}

type PollDetailResponse struct {
	Poll      PollResponse       `json:"poll"`
	Votes     []PollVoteResponse `json:"votes"`
	Tally     []DateTally        `json:"tally"`
	BestDates []string           `json:"best_dates"`
}

// List возвращает опросы комнаты.
func (h *PollHandler) List(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	polls, err := h.Polls.ListByRoom(c.Request().Context(), roomID)
	if err != nil {
		return serverError(c)
	}

	response := make([]PollResponse, 0, len(polls))
	for _, poll := range polls {
		response = append(response, toPollResponse(poll))
	}

	return c.JSON(http.StatusOK, map[string][]PollResponse{"polls": response})
}

// Create создает опрос с датами-кандидатами.
func (h *PollHandler) Create(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req CreatePollRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	dates, err := parseDates(req.Dates)
	if err != nil {
		return badRequest(c, err.Error())
	}

	poll, err := h.Polls.Create(c.Request().Context(), roomID, strings.TrimSpace(req.Title), dates)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "at least one date is required")
		}
		return serverError(c)
	}

	publishRoomEvent(h.Notifier, roomID, notifications.EventPollChanged)
	return c.JSON(http.StatusCreated, toPollResponse(poll))
}

// Get возвращает опрос с голосами и сводкой по датам.
func (h *PollHandler) Get(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	pollID, err := uuid.Parse(c.Param("pollId"))
	if err != nil {
		return badRequest(c, "invalid poll id")
	}

	poll, err := h.Polls.GetByID(c.Request().Context(), roomID, pollID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "poll not found")
		}
		return serverError(c)
	}

	votes, err := h.Polls.ListVotes(c.Request().Context(), poll.ID)
	if err != nil {
		return serverError(c)
	}

	tally, bestDates := tallyVotes(poll.Dates, votes)

	voteResponses := make([]PollVoteResponse, 0, len(votes))
	for _, vote := range votes {
		voteResponses = append(voteResponses, PollVoteResponse{
			VoterName: vote.VoterName,
			Date:      vote.VoteDate.Format(dateLayout),
			Choice:    vote.Choice,
		})
	}

	return c.JSON(http.StatusOK, PollDetailResponse{
		Poll:      toPollResponse(poll),
		Votes:     voteResponses,
		Tally:     tally,
		BestDates: bestDates,
	})
}

// Vote записывает голоса участника по датам опроса.
func (h *PollHandler) Vote(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	pollID, err := uuid.Parse(c.Param("pollId"))
	if err != nil {
		return badRequest(c, "invalid poll id")
	}

	var req CastVotesRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	poll, err := h.Polls.GetByID(c.Request().Context(), roomID, pollID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "poll not found")
		}
		return serverError(c)
	}

	if poll.IsClosed {
		return badRequest(c, "poll is closed")
	}

	votes, err := parseVotes(poll.Dates, req.Votes)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.Polls.CastVotes(c.Request().Context(), poll.ID, strings.TrimSpace(req.VoterName), votes); err != nil {
		switch {
		case errors.Is(err, repository.ErrPollClosed):
			return badRequest(c, "poll is closed")
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "poll not found")
		default:
			return serverError(c)
		}
	}

	publishRoomEvent(h.Notifier, roomID, notifications.EventPollChanged)
	return c.NoContent(http.StatusNoContent)
}

// Close закрывает опрос для новых голосов.
func (h *PollHandler) Close(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	pollID, err := uuid.Parse(c.Param("pollId"))
	if err != nil {
		return badRequest(c, "invalid poll id")
	}

	if err := h.Polls.Close(c.Request().Context(), roomID, pollID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "poll not found")
		}
		return serverError(c)
	}

	publishRoomEvent(h.Notifier, roomID, notifications.EventPollChanged)
	return c.NoContent(http.StatusNoContent)
}

// Delete удаляет опрос вместе с голосами.
func (h *PollHandler) Delete(c echo.Context) error {
	roomID, ok := auth.RoomIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	pollID, err := uuid.Parse(c.Param("pollId"))
	if err != nil {
		return badRequest(c, "invalid poll id")
	}

	if err := h.Polls.Delete(c.Request().Context(), roomID, pollID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "poll not found")
		}
		return serverError(c)
	}

	publishRoomEvent(h.Notifier, roomID, notifications.EventPollChanged)
	return c.NoContent(http.StatusNoContent)
}

func toPollResponse(poll models.Poll) PollResponse {
	dates := make([]string, 0, len(poll.Dates))
	for _, date := range poll.Dates {
		dates = append(dates, date.Format(dateLayout))
	}

	return PollResponse{
		ID:        poll.ID,
		Title:     poll.Title,
		IsClosed:  poll.IsClosed,
		Dates:     dates,
		CreatedAt: poll.CreatedAt,
	}
}

func parseDates(values []string) ([]time.Time, error) {
	seen := make(map[time.Time]struct{}, len(values))
	dates := make([]time.Time, 0, len(values))

	for _, value := range values {
		date, err := parseDate(value)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[date]; ok {
			continue
		}
		seen[date] = struct{}{}
		dates = append(dates, date)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func parseVotes(allowed []time.Time, raw map[string]string) (map[time.Time]models.VoteChoice, error) {
	allowedSet := make(map[time.Time]struct{}, len(allowed))
	for _, date := range allowed {
		allowedSet[date] = struct{}{}
	}

	votes := make(map[time.Time]models.VoteChoice, len(raw))
	for rawDate, rawChoice := range raw {
		date, err := parseDate(rawDate)
		if err != nil {
			return nil, err
		}
		if _, ok := allowedSet[date]; !ok {
			return nil, errors.New("vote date is not part of the poll")
		}

		choice := models.VoteChoice(rawChoice)
		switch choice {
		case models.VoteChoiceYes, models.VoteChoiceMaybe, models.VoteChoiceNo:
		default:
			return nil, errors.New("choice must be yes, maybe or no")
		}

		votes[date] = choice
	}

	return votes, nil
}

// tallyVotes считает голоса по датам и выбирает лучшие: максимум "да",
// при равенстве — максимум "возможно".
func tallyVotes(dates []time.Time, votes []models.PollVote) ([]DateTally, []string) {
	tally := make([]DateTally, 0, len(dates))
	index := make(map[string]int, len(dates))
	for i, date := range dates {
		key := date.Format(dateLayout)
		index[key] = i
		tally = append(tally, DateTally{Date: key})
	}

	for _, vote := range votes {
		i, ok := index[vote.VoteDate.Format(dateLayout)]
		if !ok {
			continue
		}
		switch vote.Choice {
		case models.VoteChoiceYes:
			tally[i].Yes++
		case models.VoteChoiceMaybe:
			tally[i].Maybe++
		case models.VoteChoiceNo:
			tally[i].No++
		}
	}

	bestYes, bestMaybe := 0, 0
	for _, t := range tally {
		if t.Yes > bestYes || (t.Yes == bestYes && t.Maybe > bestMaybe) {
			bestYes, bestMaybe = t.Yes, t.Maybe
		}
	}

	best := make([]string, 0)
	if bestYes > 0 || bestMaybe > 0 {
		for _, t := range tally {
			if t.Yes == bestYes && t.Maybe == bestMaybe {
				best = append(best, t.Date)
			}
		}
	}

	return tally, best
}
