package ccbench

// workload_transfer.go implements Workload-1 (§4.G): a single `transfer`
// template moving one unit of balance between two distinct `A_`-prefixed
// accounts.

import "math/rand"

const transferPrefix = "A_"

// TransferWorkload is Workload-1.
type TransferWorkload struct {
	templates []*Template
}

// NewTransferWorkload returns Workload-1.
func NewTransferWorkload() *TransferWorkload {
	w := &TransferWorkload{}
	w.templates = []*Template{
		{
			Name:     "transfer",
			PickKeys: w.pickKeys,
			Run:      w.run,
		},
	}
	return w
}

// Name implements Workload.
func (w *TransferWorkload) Name() string { return "w1" }

// Prepare implements Workload.
func (w *TransferWorkload) Prepare(storage Storage) error {
	return requirePrefix(storage, w.Name(), transferPrefix)
}

// Templates implements Workload.
func (w *TransferWorkload) Templates() []*Template { return w.templates }

func (w *TransferWorkload) pickKeys(picker *KeyPicker, rng *rand.Rand) ([]string, error) {
	return picker.PickByPrefixDistinct(transferPrefix, 2, rng)
}

// run reads both accounts (treating a missing record as empty), decrements
// keys[0]'s balance by 1 and increments keys[1]'s by 1. Equal keys are
// rejected (body-level abort, no retry, per §4.G/§9).
func (w *TransferWorkload) run(ctx *TxnContext, keys []string) bool {
	if keys[0] == keys[1] {
		return false
	}
	from, to := keys[0], keys[1]

	fromBalance := ctx.ReadInt(from, "balance", 0)
	toBalance := ctx.ReadInt(to, "balance", 0)

	ctx.WriteInt(from, "balance", fromBalance-1)
	ctx.WriteInt(to, "balance", toBalance+1)
	return true
}
