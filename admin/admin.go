// Package admin holds the pool's administrative state: the owner identity
// and the two independent gates, staking-paused and transfers-stopped.
//
// State carries no lock of its own; the staking controller serializes all
// access alongside the rest of the pool state.
package admin

import "github.com/bidolabs/bidopool-go/identity"

// State is the owner identity plus the two gates. The gates are
// independent of each other and of pool initialization.
type State struct {
	owner            identity.Holder
	stakingPaused    bool
	transfersStopped bool
}

// New creates administrative state with the given owner and both gates open.
func New(owner identity.Holder) *State {
	return &State{owner: owner}
}

// Owner returns the current owner identity.
func (s *State) Owner() identity.Holder { return s.owner }

// StakingPaused reports whether new stakes are gated off.
func (s *State) StakingPaused() bool { return s.stakingPaused }

// TransfersStopped reports whether share transfers are gated off.
func (s *State) TransfersStopped() bool { return s.transfersStopped }

// RequireOwner fails with ErrUnauthorized unless caller is the owner.
func (s *State) RequireOwner(caller identity.Holder) error {
	if caller != s.owner {
		return ErrUnauthorized
	}
	return nil
}

// TransferOwnership sets a new owner. Only the current owner may call it;
// the new owner is not validated (a deployment concern).
func (s *State) TransferOwnership(caller, newOwner identity.Holder) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}
	s.owner = newOwner
	return nil
}

// SetStakingPaused toggles the staking gate. Setting the current value
// again succeeds silently.
func (s *State) SetStakingPaused(caller identity.Holder, paused bool) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}
	s.stakingPaused = paused
	return nil
}

// SetTransfersStopped toggles the transfer gate. Setting the current value
// again succeeds silently.
func (s *State) SetTransfersStopped(caller identity.Holder, stopped bool) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}
	s.transfersStopped = stopped
	return nil
}

// Restore replaces the administrative state wholesale, used when loading a
// persisted snapshot.
func (s *State) Restore(owner identity.Holder, stakingPaused, transfersStopped bool) {
	s.owner = owner
	s.stakingPaused = stakingPaused
	s.transfersStopped = transfersStopped
}
