package service

import (
	"context"
	"fmt"

	"github.com/louisbranch/orion/internal/agent/domain"
	"github.com/louisbranch/orion/internal/agent/event"
)

const verifyBatchSize = 256

// VerifyResult reports the outcome of a full chain verification.
type VerifyResult struct {
	Valid         bool
	EventsChecked uint64
	// DivergenceSeq is the first sequence number that failed verification.
	DivergenceSeq uint64
	Reason        domain.Code
	Detail        string
}

// VerifyChain recomputes every event hash, chain hash, and signature in the
// journal and reports the first divergence. An empty journal is valid.
func (s *Service) VerifyChain(ctx context.Context) (VerifyResult, error) {
	ctx, span := s.tracer.Start(ctx, "agent.VerifyChain")
	defer span.End()

	result := VerifyResult{Valid: true}
	prevChain := ""
	expectedSeq := uint64(1)

	for {
		batch, err := s.store.ListEventsAscending(ctx, s.agentID, expectedSeq, verifyBatchSize)
		if err != nil {
			return VerifyResult{}, fmt.Errorf("list events from seq %d: %w", expectedSeq, err)
		}
		if len(batch) == 0 {
			return result, nil
		}
		for _, evt := range batch {
			if evt.Seq != expectedSeq {
				return diverged(result, expectedSeq, domain.CodeChainSeqGap,
					fmt.Sprintf("expected seq %d, found %d", expectedSeq, evt.Seq)), nil
			}
			if fail, ok := s.verifyEvent(evt, prevChain); !ok {
				return diverged(result, evt.Seq, fail.Reason, fail.Detail), nil
			}
			prevChain = evt.ChainHash
			expectedSeq++
			result.EventsChecked++
		}
	}
}

type verifyFailure struct {
	Reason domain.Code
	Detail string
}

func (s *Service) verifyEvent(evt event.Event, prevChain string) (verifyFailure, bool) {
	hash, err := event.EventHash(evt)
	if err != nil {
		return verifyFailure{domain.CodeChainBadEventHash, err.Error()}, false
	}
	if hash != evt.Hash {
		return verifyFailure{domain.CodeChainBadEventHash,
			fmt.Sprintf("event hash %s does not match recomputed %s", evt.Hash, hash)}, false
	}
	if evt.PrevHash != prevChain {
		return verifyFailure{domain.CodeChainHashMismatch,
			fmt.Sprintf("prev hash %s does not match predecessor chain hash %s", evt.PrevHash, prevChain)}, false
	}
	chain, err := event.ChainHash(evt, prevChain)
	if err != nil {
		return verifyFailure{domain.CodeChainHashMismatch, err.Error()}, false
	}
	if chain != evt.ChainHash {
		return verifyFailure{domain.CodeChainHashMismatch,
			fmt.Sprintf("chain hash %s does not match recomputed %s", evt.ChainHash, chain)}, false
	}
	if s.keyring != nil {
		if err := s.keyring.VerifyChainHash(s.agentID, evt.ChainHash, evt.Signature, evt.SignatureKeyID); err != nil {
			return verifyFailure{domain.CodeChainBadSignature, err.Error()}, false
		}
	}
	return verifyFailure{}, true
}

func diverged(result VerifyResult, seq uint64, reason domain.Code, detail string) VerifyResult {
	result.Valid = false
	result.DivergenceSeq = seq
	result.Reason = reason
	result.Detail = detail
	return result
}
