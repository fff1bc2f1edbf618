// Package risk is a compact Risk on the map of the Swiss cantons for two or
// more players. Each attack is a single round of dice, so the search sees the
// exact odds of every round. Cards are left out.
package risk

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"

	"gametheory/game"
)

type Phase int8

const (
	ReinforcementPhase Phase = iota
	AttackPhase
	ManeuverPhase
)

func (p Phase) String() string {
	switch p {
	case ReinforcementPhase:
		return "reinforce"
	case AttackPhase:
		return "attack"
	case ManeuverPhase:
		return "maneuver"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

type Action int8

const (
	ReinforceAction Action = iota
	AttackAction
	ManeuverAction
	PassAction
)

var actionNames = map[Action]string{
	ReinforceAction: "reinforce",
	AttackAction:    "attack",
	ManeuverAction:  "maneuver",
	PassAction:      "pass",
}

func (a Action) String() string {
	return actionNames[a]
}

// Move is comparable. For an attack Troops is the number of attacking dice.
type Move struct {
	player game.PlayerToken
	Action Action
	From   int
	To     int
	Troops int
}

func (m Move) Player() game.PlayerToken {
	return m.player
}

func (m Move) IsDeterministic() bool {
	return m.Action != AttackAction
}

func (m Move) String() string {
	switch m.Action {
	case ReinforceAction:
		return fmt.Sprintf("%v reinforce %d@%d", m.player, m.Troops, m.To)
	case PassAction:
		return fmt.Sprintf("%v pass", m.player)
	}
	return fmt.Sprintf("%v %s %d->%d (%d)", m.player, m.Action, m.From, m.To, m.Troops)
}

const unowned = -1

// State is immutable; every transition copies the per-canton slices.
type State struct {
	board   *Map
	players []game.PlayerToken
	owners  []int8 // seat per canton
	troops  []int
	current int
	phase   Phase
	toPlace int
}

// StartingTroops is what every canton holds after the deal.
const StartingTroops = 2

// New deals the cantons round robin in canton order and starts the first
// player's reinforcement.
func New(board *Map, players ...game.PlayerToken) State {
	if len(players) < 2 || len(players) > len(board.Cantons) {
		panic(fmt.Sprintf("risk needs between 2 and %d players, got %d", len(board.Cantons), len(players)))
	}
	s := State{
		board:   board,
		players: slices.Clone(players),
		owners:  make([]int8, len(board.Cantons)),
		troops:  make([]int, len(board.Cantons)),
	}
	for i := range board.Cantons {
		s.owners[i] = int8(i % len(players))
		s.troops[i] = StartingTroops
	}
	s.toPlace = s.reinforcements(0)
	return s
}

func (s State) Map() *Map {
	return s.board
}

func (s State) Phase() Phase {
	return s.phase
}

func (s State) Current() game.PlayerToken {
	return s.players[s.current]
}

func (s State) TroopsToPlace() int {
	return s.toPlace
}

// Owner returns the zero token for an unowned canton.
func (s State) Owner(canton int) game.PlayerToken {
	if s.owners[canton] == unowned {
		return game.PlayerToken{}
	}
	return s.players[s.owners[canton]]
}

func (s State) Troops(canton int) int {
	return s.troops[canton]
}

func (s State) Players() []game.PlayerToken {
	return slices.Clone(s.players)
}

func (s State) seat(player game.PlayerToken) int {
	return slices.Index(s.players, player)
}

func (s State) territories(seat int) int {
	return lo.Count(s.owners, int8(seat))
}

// winner is the seat holding every owned canton, or -1.
func (s State) winner() int {
	seat := int8(unowned)
	for _, owner := range s.owners {
		switch {
		case owner == unowned:
		case seat == unowned:
			seat = owner
		case owner != seat:
			return unowned
		}
	}
	return int(seat)
}

func (s State) Winners() []game.PlayerToken {
	if seat := s.winner(); seat != unowned {
		return []game.PlayerToken{s.players[seat]}
	}
	return nil
}

func (s State) AvailableMoves() []game.Move {
	if s.winner() != unowned {
		return nil
	}
	switch s.phase {
	case ReinforcementPhase:
		return s.reinforcementMoves()
	case AttackPhase:
		return s.attackMoves()
	default:
		return s.maneuverMoves()
	}
}

// amounts offers one, half or all of n troops.
func amounts(n int) []int {
	return lo.Uniq(lo.Filter([]int{1, n / 2, n}, func(k int, _ int) bool { return k > 0 }))
}

func (s State) frontier() []int {
	var cantons []int
	for id, owner := range s.owners {
		if int(owner) != s.current {
			continue
		}
		if lo.SomeBy(s.board.Cantons[id].AdjacentIDs, func(adj int) bool { return int(s.owners[adj]) != s.current }) {
			cantons = append(cantons, id)
		}
	}
	return cantons
}

func (s State) reinforcementMoves() []game.Move {
	var moves []game.Move
	for _, id := range s.frontier() {
		for _, n := range amounts(s.toPlace) {
			moves = append(moves, Move{player: s.Current(), Action: ReinforceAction, To: id, Troops: n})
		}
	}
	return moves
}

func (s State) attackMoves() []game.Move {
	var moves []game.Move
	for id, owner := range s.owners {
		if int(owner) != s.current || s.troops[id] <= 1 {
			continue
		}
		dice := min(s.troops[id]-1, MaxAttackDice)
		for _, adj := range s.board.Cantons[id].AdjacentIDs {
			if int(s.owners[adj]) != s.current {
				moves = append(moves, Move{player: s.Current(), Action: AttackAction, From: id, To: adj, Troops: dice})
			}
		}
	}
	return append(moves, Move{player: s.Current(), Action: PassAction})
}

func (s State) maneuverMoves() []game.Move {
	var moves []game.Move
	for from, owner := range s.owners {
		if int(owner) != s.current || s.troops[from] <= 1 {
			continue
		}
		for _, to := range s.reachable(from) {
			for _, n := range amounts(s.troops[from] - 1) {
				moves = append(moves, Move{player: s.Current(), Action: ManeuverAction, From: from, To: to, Troops: n})
			}
		}
	}
	return append(moves, Move{player: s.Current(), Action: PassAction})
}

// reachable lists, in canton order, the cantons connected to from through
// cantons of the same owner.
func (s State) reachable(from int) []int {
	owner := s.owners[from]
	visited := map[int]bool{from: true}
	queue := []int{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, adj := range s.board.Cantons[current].AdjacentIDs {
			if s.owners[adj] == owner && !visited[adj] {
				visited[adj] = true
				queue = append(queue, adj)
			}
		}
	}
	delete(visited, from)
	connected := lo.Keys(visited)
	slices.Sort(connected)
	return connected
}

// AreConnected reports whether troops can be maneuvered between two cantons.
func (s State) AreConnected(from, to int) bool {
	return from == to || slices.Contains(s.reachable(from), to)
}

func (s State) check(move game.Move) Move {
	m, ok := move.(Move)
	if !ok {
		panic(fmt.Sprintf("unexpected move type %T", move))
	}
	if !slices.Contains(s.AvailableMoves(), game.Move(m)) {
		panic(fmt.Sprintf("move %v is not legal in %v", m, s))
	}
	return m
}

func (s State) clone() State {
	s.owners = slices.Clone(s.owners)
	s.troops = slices.Clone(s.troops)
	return s
}

// Play rolls the dice of an attack with the global source. Searchers use
// Outcomes instead.
func (s State) Play(move game.Move) game.State {
	m := s.check(move)
	if m.Action == AttackAction {
		defenders := min(s.troops[m.To], MaxDefendDice)
		return s.battle(m, DetermineAttackOutcome(rollDice(m.Troops), rollDice(defenders)))
	}
	return s.apply(m)
}

func (s State) Outcomes(move game.Move) []game.Weighted[game.State] {
	m := s.check(move)
	if m.Action != AttackAction {
		return []game.Weighted[game.State]{{Value: s.apply(m), Weight: 1}}
	}
	return lo.Map(Odds(m.Troops, min(s.troops[m.To], MaxDefendDice)), func(w game.Weighted[Losses], _ int) game.Weighted[game.State] {
		return game.Weighted[game.State]{Value: s.battle(m, w.Value), Weight: w.Weight}
	})
}

func (s State) apply(m Move) State {
	next := s.clone()
	switch m.Action {
	case ReinforceAction:
		next.troops[m.To] += m.Troops
		next.toPlace -= m.Troops
		if next.toPlace == 0 {
			next.phase = AttackPhase
		}
	case ManeuverAction:
		next.troops[m.From] -= m.Troops
		next.troops[m.To] += m.Troops
		next.endTurn()
	case PassAction:
		if next.phase == AttackPhase {
			next.phase = ManeuverPhase
		} else {
			next.endTurn()
		}
	}
	return next
}

// battle applies one round of losses. A conquered canton receives every
// attacking troop but one.
func (s State) battle(m Move, losses Losses) State {
	next := s.clone()
	next.troops[m.From] -= losses.Attacker
	next.troops[m.To] -= losses.Defender
	if next.troops[m.To] == 0 {
		next.owners[m.To] = int8(s.current)
		next.troops[m.To] = next.troops[m.From] - 1
		next.troops[m.From] = 1
	}
	return next
}

func (s *State) endTurn() {
	for i := 1; i <= len(s.players); i++ {
		seat := (s.current + i) % len(s.players)
		if s.territories(seat) > 0 {
			s.current = seat
			break
		}
	}
	s.phase = ReinforcementPhase
	s.toPlace = s.reinforcements(s.current)
}

// reinforcements is a third of the seat's cantons, at least MinReinforce, plus
// the bonus of every region it holds entirely.
func (s State) reinforcements(seat int) int {
	troops := max(MinReinforce, s.territories(seat)/3)
	for _, region := range s.board.Regions {
		if lo.EveryBy(region.CantonIDs, func(id int) bool { return int(s.owners[id]) == seat }) {
			troops += region.Bonus
		}
	}
	return troops
}

func (s State) View(game.PlayerToken, int, *rand.Rand) []game.State {
	return []game.State{s}
}

func (s State) Hash() game.StateHash {
	hasher := fnv.New64a()
	_ = binary.Write(hasher, binary.LittleEndian, [3]int64{int64(s.current), int64(s.phase), int64(s.toPlace)})
	_ = binary.Write(hasher, binary.LittleEndian, s.owners)
	for _, count := range s.troops {
		_ = binary.Write(hasher, binary.LittleEndian, int64(count))
	}
	return game.StateHash(hasher.Sum64())
}

func (s State) Compare(other game.State) int {
	o, ok := other.(State)
	if !ok {
		panic(fmt.Sprintf("cannot compare with %T", other))
	}
	return cmp.Or(
		cmp.Compare(s.current, o.current),
		cmp.Compare(s.phase, o.phase),
		cmp.Compare(s.toPlace, o.toPlace),
		slices.Compare(s.owners, o.owners),
		slices.Compare(s.troops, o.troops),
		slices.CompareFunc(s.players, o.players, game.PlayerToken.Compare),
	)
}

func (s State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v %s", s.Current(), s.phase)
	if s.phase == ReinforcementPhase {
		fmt.Fprintf(&b, " %d", s.toPlace)
	}
	b.WriteString(" [")
	for id, canton := range s.board.Cantons {
		if id > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s:%d/%d", canton.Abbreviation, s.owners[id], s.troops[id])
	}
	b.WriteByte(']')
	return b.String()
}
