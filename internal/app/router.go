// Package app wires Discord interactions to the match engines.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	d "github.com/jose-valero/pitchduel-bot/internal/adapters/discord"
	"github.com/jose-valero/pitchduel-bot/internal/callback"
	"github.com/jose-valero/pitchduel-bot/internal/ports"
	"github.com/jose-valero/pitchduel-bot/internal/pvp"
	"github.com/jose-valero/pitchduel-bot/internal/shootout"
	"github.com/jose-valero/pitchduel-bot/internal/squad"
	"github.com/jose-valero/pitchduel-bot/internal/ui"
)

const interactionTimeout = 10 * time.Second

var errUnknownPayload = errors.New("unknown button payload")

// Users is the account storage the router touches directly.
type Users interface {
	EnsureUser(ctx context.Context, id, username string) error
	LoadOwnedPlayer(ctx context.Context, userID string, playerID int) (*squad.Player, error)
}

// Squads resolves a user's squad. *squad.Cache satisfies it.
type Squads interface {
	Get(ctx context.Context, ownerID string) (*squad.Squad, error)
}

type RouterDeps struct {
	Context   context.Context // cancelled on shutdown
	PvP       *pvp.Coordinator
	Shootouts *shootout.Coordinator
	Squads    Squads
	Users     Users
	Policy    *d.Policy
	Logger    *zap.Logger
}

type Router struct {
	base     context.Context
	pvp      *pvp.Coordinator
	shootout *shootout.Coordinator
	squads   Squads
	users    Users
	policy   *d.Policy
	log      *zap.Logger
	seen     *dedupe
}

func NewRouter(deps RouterDeps) *Router {
	r := &Router{
		base:     deps.Context,
		pvp:      deps.PvP,
		shootout: deps.Shootouts,
		squads:   deps.Squads,
		users:    deps.Users,
		policy:   deps.Policy,
		log:      deps.Logger,
		seen:     newDedupe(dedupeTTL),
	}
	if r.base == nil {
		r.base = context.Background()
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	if r.policy == nil {
		r.policy = d.NewPolicy(nil)
	}
	r.log = r.log.Named("router")
	return r
}

// HandleInteraction is the discordgo handler.
func (r *Router) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	r.Handle(s, i)
}

func (r *Router) Handle(s d.Responder, i *discordgo.InteractionCreate) {
	if r.seen.recentlyHandled(i.ID) {
		r.log.Debug("duplicate interaction", zap.String("id", i.ID))
		return
	}
	ctx, cancel := context.WithTimeout(r.base, interactionTimeout)
	defer cancel()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		r.handleSlash(ctx, s, i)
	case discordgo.InteractionMessageComponent:
		r.handleComponent(ctx, s, i)
	}
}

// ------------------- Slash -------------------

func (r *Router) handleSlash(ctx context.Context, s d.Responder, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	u := d.UserOf(i)
	if u == nil {
		_ = d.SendEphemeral(s, i, "⚠️ Could not identify you.")
		return
	}
	r.log.Debug("slash", zap.String("command", data.Name), zap.String("chat", i.ChannelID), zap.String("user", u.ID))

	if err := r.users.EnsureUser(ctx, u.ID, d.SafeName(u)); err != nil {
		r.fail(s, i, fmt.Errorf("ensure user %s: %w", u.ID, err))
		return
	}

	var err error
	switch data.Name {
	case "pvp":
		err = r.slashPvP(ctx, s, i, u, data)
	case "pvpai":
		err = r.slashPvPAI(ctx, s, i, u, data)
	case "pvpcancel":
		err = r.slashPvPCancel(ctx, s, i)
	case "penalty":
		err = r.slashPenalty(ctx, s, i, u, data)
	case "penaltycancel":
		err = r.slashPenaltyCancel(ctx, s, i)
	case "squad":
		err = r.slashSquad(ctx, s, i, u, data)
	case "setslot":
		err = r.slashSetSlot(ctx, s, i, u, data)
	case "status":
		err = r.slashStatus(s, i)
	default:
		err = d.SendEphemeral(s, i, "⚠️ Unknown command.")
	}
	if err != nil {
		r.fail(s, i, err)
	}
}

// opponent resolves and registers a user option. ok is false when a reply
// was already sent.
func (r *Router) opponent(ctx context.Context, s d.Responder, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData, name string) (*discordgo.User, bool, error) {
	opp := optionUser(data, name)
	if opp == nil {
		return nil, false, d.SendEphemeral(s, i, "⚠️ Pick an opponent.")
	}
	if opp.Bot {
		return nil, false, d.SendEphemeral(s, i, "🤖 Bots can't play. Try `/pvpai`.")
	}
	if err := r.users.EnsureUser(ctx, opp.ID, d.SafeName(opp)); err != nil {
		return nil, false, fmt.Errorf("ensure user %s: %w", opp.ID, err)
	}
	return opp, true, nil
}

func (r *Router) slashPvP(ctx context.Context, s d.Responder, i *discordgo.InteractionCreate, u *discordgo.User, data discordgo.ApplicationCommandInteractionData) error {
	opp, ok, err := r.opponent(ctx, s, i, data, "opponent")
	if !ok {
		return err
	}
	v, err := r.pvp.IssueChallenge(ctx, i.ChannelID, u.ID, opp.ID)
	if err != nil {
		return err
	}
	return d.SendEphemeral(s, i, fmt.Sprintf("⚔️ Challenge sent to %s.", v.OpponentName))
}

func (r *Router) slashPvPAI(ctx context.Context, s d.Responder, i *discordgo.InteractionCreate, u *discordgo.User, data discordgo.ApplicationCommandInteractionData) error {
	difficulty := optionString(data, "difficulty")
	if _, err := r.pvp.IssueAIChallenge(ctx, i.ChannelID, u.ID, difficulty); err != nil {
		return err
	}
	return d.SendEphemeral(s, i, fmt.Sprintf("🤖 Kick-off against the %s AI!", difficulty))
}

func (r *Router) slashPvPCancel(ctx context.Context, s d.Responder, i *discordgo.InteractionCreate) error {
	if !r.policy.IsPrivileged(i) {
		return d.SendEphemeral(s, i, "⛔ Only admins can cancel matches.")
	}
	if !r.pvp.CancelMatch(ctx, i.ChannelID) {
		return pvp.ErrNoMatch
	}
	return d.SendEphemeral(s, i, "🛑 Match cancelled.")
}

func (r *Router) slashPenalty(ctx context.Context, s d.Responder, i *discordgo.InteractionCreate, u *discordgo.User, data discordgo.ApplicationCommandInteractionData) error {
	opp, ok, err := r.opponent(ctx, s, i, data, "opponent")
	if !ok {
		return err
	}
	ch := shootout.Participant{ID: u.ID, Name: d.DisplayName(i)}
	op := shootout.Participant{ID: opp.ID, Name: d.SafeName(opp)}
	if _, err := r.shootout.StartChallenge(ctx, i.ChannelID, ch, op); err != nil {
		return err
	}
	return d.SendEphemeral(s, i, "🥅 Shootout on! You kick first.")
}

func (r *Router) slashPenaltyCancel(ctx context.Context, s d.Responder, i *discordgo.InteractionCreate) error {
	if !r.policy.IsPrivileged(i) {
		return d.SendEphemeral(s, i, "⛔ Only admins can cancel shootouts.")
	}
	if err := r.shootout.Cancel(ctx, i.ChannelID); err != nil {
		return err
	}
	return d.SendEphemeral(s, i, "🛑 Shootout cancelled.")
}

func (r *Router) slashSquad(ctx context.Context, s d.Responder, i *discordgo.InteractionCreate, u *discordgo.User, data discordgo.ApplicationCommandInteractionData) error {
	target := u
	if other := optionUser(data, "user"); other != nil {
		target = other
	}
	sq, err := r.squads.Get(ctx, target.ID)
	if err != nil {
		return fmt.Errorf("load squad %s: %w", target.ID, err)
	}
	return d.SendEmbed(s, i, ui.SquadEmbed(d.SafeName(target), sq.Snapshot()))
}

func (r *Router) slashSetSlot(ctx context.Context, s d.Responder, i *discordgo.InteractionCreate, u *discordgo.User, data discordgo.ApplicationCommandInteractionData) error {
	pos, ok := squad.ParsePosition(optionString(data, "position"))
	if !ok {
		return squad.ErrUnknownPosition
	}
	playerID := int(optionInt(data, "player_id"))

	var p *squad.Player
	if playerID != 0 {
		var err error
		p, err = r.users.LoadOwnedPlayer(ctx, u.ID, playerID)
		if errors.Is(err, ports.ErrNotFound) {
			return d.SendEphemeral(s, i, fmt.Sprintf("⚠️ You don't own player #%d.", playerID))
		}
		if err != nil {
			return fmt.Errorf("load player %d: %w", playerID, err)
		}
	}

	sq, err := r.squads.Get(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("load squad %s: %w", u.ID, err)
	}
	if err := sq.SetSlot(ctx, pos, p); err != nil {
		return err
	}
	if p == nil {
		return d.SendEphemeral(s, i, fmt.Sprintf("✅ %s cleared.", pos))
	}
	return d.SendEphemeral(s, i, fmt.Sprintf("✅ %s %s is now your %s.", p.Emoji(), p.Name, pos))
}

func (r *Router) slashStatus(s d.Responder, i *discordgo.InteractionCreate) error {
	var mv *pvp.View
	var sv *shootout.View
	if v, ok := r.pvp.Active(i.ChannelID); ok {
		mv = &v
	}
	if v, ok := r.shootout.Active(i.ChannelID); ok {
		sv = &v
	}
	return d.SendEphemeralEmbed(s, i, ui.StatusEmbed(mv, sv))
}

// ------------------- Components -------------------

// handleComponent acks first: a round press can take longer than the
// three seconds Discord gives us to answer.
func (r *Router) handleComponent(ctx context.Context, s d.Responder, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	u := d.UserOf(i)
	r.log.Debug("component", zap.String("payload", customID), zap.String("user", d.SafeName(u)))

	if err := d.Ack(s, i); err != nil {
		r.log.Warn("ack component", zap.String("payload", customID), zap.Error(err))
	}
	if u == nil {
		return
	}

	err := r.dispatchComponent(ctx, i.ChannelID, u.ID, customID)
	switch {
	case err == nil:
	case errors.Is(err, errUnknownPayload):
		r.log.Debug("ignored component", zap.String("payload", customID))
	case pvp.IsRace(err) || shootout.IsRace(err):
		r.log.Debug("race dropped", zap.String("payload", customID), zap.Error(err))
	default:
		msg, ok := userMessage(err)
		if !ok {
			r.log.Error("component failed", zap.String("payload", customID), zap.Error(err))
			msg = "Something went wrong, try again."
		}
		if ferr := d.FollowupEphemeral(s, i, "⚠️ "+msg); ferr != nil {
			r.log.Warn("followup", zap.Error(ferr))
		}
	}
}

func (r *Router) dispatchComponent(ctx context.Context, chatID, userID, customID string) error {
	p, ok := callback.Decode(customID)
	if !ok {
		return errUnknownPayload
	}
	switch p.Scope + ":" + p.Verb {
	case "pvp:accept":
		return r.pvp.AcceptChallenge(ctx, chatID, p.Arg(0), userID)
	case "pvp:decline":
		return r.pvp.DeclineChallenge(ctx, chatID, p.Arg(0), userID)
	case "pvp:round":
		n, ok := p.IntArg(1)
		if !ok {
			return errUnknownPayload
		}
		return r.pvp.AdvanceRound(ctx, chatID, p.Arg(0), n, userID)
	case "pen:kick", "pen:save":
		dir, ok := shootout.ParseDirection(p.Arg(1))
		if !ok {
			return shootout.ErrBadDirection
		}
		if p.Verb == "kick" {
			return r.shootout.ChooseKickDirection(ctx, chatID, p.Arg(0), userID, dir)
		}
		return r.shootout.ChooseSaveDirection(ctx, chatID, p.Arg(0), userID, dir)
	}
	return errUnknownPayload
}

// ------------------- Errors -------------------

var userFacing = []error{
	pvp.ErrMatchInProgress, pvp.ErrSelfChallenge, pvp.ErrUnknownUser, pvp.ErrNoAISquad,
	pvp.ErrNoMatch, pvp.ErrNotOpponent, pvp.ErrNotParticipant,
	shootout.ErrGameInProgress, shootout.ErrSelfChallenge, shootout.ErrNoGame,
	shootout.ErrNotYourTurn, shootout.ErrBadDirection,
	squad.ErrInvalidAssignment, squad.ErrUnknownPosition, squad.ErrAlreadyInSquad,
}

// userMessage returns the text to show for an expected error.
func userMessage(err error) (string, bool) {
	for _, e := range userFacing {
		if errors.Is(err, e) {
			return e.Error(), true
		}
	}
	return "", false
}

// fail answers a slash command that returned err.
func (r *Router) fail(s d.Responder, i *discordgo.InteractionCreate, err error) {
	msg, ok := userMessage(err)
	if !ok {
		r.log.Error("command failed", zap.String("chat", i.ChannelID), zap.Error(err))
		msg = "Something went wrong, try again."
	}
	if rerr := d.SendEphemeral(s, i, "⚠️ "+msg); rerr != nil {
		r.log.Warn("respond", zap.Error(rerr))
	}
}

// ------------------- Options -------------------

func option(data discordgo.ApplicationCommandInteractionData, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, o := range data.Options {
		if o.Name == name {
			return o
		}
	}
	return nil
}

func optionString(data discordgo.ApplicationCommandInteractionData, name string) string {
	if o := option(data, name); o != nil {
		if v, ok := o.Value.(string); ok {
			return v
		}
	}
	return ""
}

// optionInt reads an integer option. JSON numbers arrive as float64.
func optionInt(data discordgo.ApplicationCommandInteractionData, name string) int64 {
	o := option(data, name)
	if o == nil {
		return 0
	}
	switch v := o.Value.(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// optionUser prefers the resolved user, which carries the username and bot flag.
func optionUser(data discordgo.ApplicationCommandInteractionData, name string) *discordgo.User {
	id := optionString(data, name)
	if id == "" {
		return nil
	}
	if data.Resolved != nil {
		if u, ok := data.Resolved.Users[id]; ok && u != nil {
			return u
		}
	}
	return &discordgo.User{ID: id}
}
