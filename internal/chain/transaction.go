package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/dtroode/recoveryd/internal/keys"
	"github.com/dtroode/recoveryd/internal/model"
)

// TransactionID is the hex sha256 of the transaction's JSON encoding.
func TransactionID(trx model.Transaction) (string, error) {
	data, err := json.Marshal(trx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInvalidTransaction, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// SigningDigest binds a transaction id to a chain.
func SigningDigest(chainID, id string) ([]byte, error) {
	raw, err := hex.DecodeString(id)
	if err != nil {
		return nil, fmt.Errorf("%w: bad transaction id: %v", model.ErrInvalidTransaction, err)
	}
	h := sha256.New()
	h.Write([]byte(chainID))
	h.Write(raw)
	return h.Sum(nil), nil
}

// Sign signs trx for chainID with every key.
func Sign(chainID string, trx model.Transaction, signers ...keys.PrivateKey) (model.SignedTransaction, error) {
	id, err := TransactionID(trx)
	if err != nil {
		return model.SignedTransaction{}, err
	}
	digest, err := SigningDigest(chainID, id)
	if err != nil {
		return model.SignedTransaction{}, err
	}

	signed := model.SignedTransaction{Transaction: trx}
	for _, k := range signers {
		signed.Signatures = append(signed.Signatures, model.Signature{Key: k.Public(), Sig: k.Sign(digest)})
	}
	return signed, nil
}

// signingKeys verifies every signature and returns the distinct signing keys.
func signingKeys(chainID, id string, sigs []model.Signature) ([]keys.PublicKey, error) {
	digest, err := SigningDigest(chainID, id)
	if err != nil {
		return nil, err
	}

	seen := make(map[keys.PublicKey]struct{}, len(sigs))
	out := make([]keys.PublicKey, 0, len(sigs))
	for _, s := range sigs {
		if !keys.Verify(s.Key, digest, s.Sig) {
			return nil, fmt.Errorf("%w: by %s", model.ErrInvalidSignature, s.Key)
		}
		if _, dup := seen[s.Key]; dup {
			continue
		}
		seen[s.Key] = struct{}{}
		out = append(out, s.Key)
	}
	return out, nil
}

// NewAction encodes data as the payload of an action.
func NewAction(name model.ActionName, data any, authorization ...model.PermissionLevel) (model.Action, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return model.Action{}, fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return model.Action{Name: name, Authorization: authorization, Data: raw}, nil
}

// decodedAction is an action whose payload was decoded.
type decodedAction struct {
	action   model.Action
	initiate *model.InitiateRecovery
	veto     *model.VetoRecovery
}

func (d decodedAction) recovery() bool {
	return d.initiate != nil || d.veto != nil
}

func decodeAction(action model.Action) (decodedAction, error) {
	out := decodedAction{action: action}

	var target any
	switch action.Name {
	case model.ActionPostRecovery:
		out.initiate = &model.InitiateRecovery{}
		target = out.initiate
	case model.ActionVetoRecovery:
		out.veto = &model.VetoRecovery{}
		target = out.veto
	case model.ActionNonce:
		target = &model.Nonce{}
	default:
		return decodedAction{}, fmt.Errorf("%w: %q", model.ErrUnknownAction, action.Name)
	}

	if len(action.Data) == 0 {
		return decodedAction{}, fmt.Errorf("%w: %s has no data", model.ErrInvalidTransaction, action.Name)
	}
	if err := json.Unmarshal(action.Data, target); err != nil {
		return decodedAction{}, fmt.Errorf("%w: %s: %v", model.ErrInvalidTransaction, action.Name, err)
	}

	if out.initiate != nil && out.initiate.Account == "" {
		return decodedAction{}, fmt.Errorf("%w: %s without account", model.ErrInvalidTransaction, action.Name)
	}
	if out.veto != nil && out.veto.Account == "" {
		return decodedAction{}, fmt.Errorf("%w: %s without account", model.ErrInvalidTransaction, action.Name)
	}
	return out, nil
}
