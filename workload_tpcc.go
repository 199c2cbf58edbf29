package ccbench

// workload_tpcc.go implements Workload-2, a minimal TPC-C-style workload
// with `new_order` and `payment` templates over `W_`/`D_`/`C_`/`S_`
// prefixed keys (§4.G).

import "math/rand"

const (
	warehousePrefix = "W_"
	districtPrefix  = "D_"
	customerPrefix  = "C_"
	stockPrefix     = "S_"
)

// TPCCWorkload is Workload-2.
type TPCCWorkload struct {
	templates []*Template
}

// NewTPCCWorkload returns Workload-2.
func NewTPCCWorkload() *TPCCWorkload {
	w := &TPCCWorkload{}
	w.templates = []*Template{
		{Name: "new_order", PickKeys: w.pickNewOrderKeys, Run: w.runNewOrder},
		{Name: "payment", PickKeys: w.pickPaymentKeys, Run: w.runPayment},
	}
	return w
}

// Name implements Workload.
func (w *TPCCWorkload) Name() string { return "w2" }

// Prepare implements Workload.
func (w *TPCCWorkload) Prepare(storage Storage) error {
	for _, p := range []string{warehousePrefix, districtPrefix, customerPrefix, stockPrefix} {
		if err := requirePrefix(storage, w.Name(), p); err != nil {
			return err
		}
	}
	return nil
}

// Templates implements Workload.
func (w *TPCCWorkload) Templates() []*Template { return w.templates }

// pickNewOrderKeys selects one district and three distinct stock keys:
// [D_x, S_a, S_b, S_c].
func (w *TPCCWorkload) pickNewOrderKeys(picker *KeyPicker, rng *rand.Rand) ([]string, error) {
	district, err := picker.PickByPrefix(districtPrefix, rng)
	if err != nil {
		return nil, err
	}
	stocks, err := picker.PickByPrefixDistinct(stockPrefix, 3, rng)
	if err != nil {
		return nil, err
	}
	return append([]string{district}, stocks...), nil
}

// runNewOrder bumps the district's next_o_id and debits/touches each
// stock's qty/ytd/order_cnt.
func (w *TPCCWorkload) runNewOrder(ctx *TxnContext, keys []string) bool {
	district := keys[0]
	stocks := keys[1:]

	nextOID := ctx.ReadInt(district, "next_o_id", 0)
	ctx.WriteInt(district, "next_o_id", nextOID+1)

	for _, s := range stocks {
		qty := ctx.ReadInt(s, "qty", 0)
		ytd := ctx.ReadInt(s, "ytd", 0)
		orderCnt := ctx.ReadInt(s, "order_cnt", 0)

		ctx.WriteInt(s, "qty", qty-1)
		ctx.WriteInt(s, "ytd", ytd+1)
		ctx.WriteInt(s, "order_cnt", orderCnt+1)
	}
	return true
}

// pickPaymentKeys selects one warehouse, one district, one customer:
// [W_x, D_y, C_z].
func (w *TPCCWorkload) pickPaymentKeys(picker *KeyPicker, rng *rand.Rand) ([]string, error) {
	warehouse, err := picker.PickByPrefix(warehousePrefix, rng)
	if err != nil {
		return nil, err
	}
	district, err := picker.PickByPrefix(districtPrefix, rng)
	if err != nil {
		return nil, err
	}
	customer, err := picker.PickByPrefix(customerPrefix, rng)
	if err != nil {
		return nil, err
	}
	return []string{warehouse, district, customer}, nil
}

// runPayment credits warehouse and district ytd, debits the customer's
// balance and bumps its ytd_payment/payment_cnt, all by 5 (§4.G).
func (w *TPCCWorkload) runPayment(ctx *TxnContext, keys []string) bool {
	warehouse, district, customer := keys[0], keys[1], keys[2]
	const amount = 5

	ctx.WriteInt(warehouse, "ytd", ctx.ReadInt(warehouse, "ytd", 0)+amount)
	ctx.WriteInt(district, "ytd", ctx.ReadInt(district, "ytd", 0)+amount)

	ctx.WriteInt(customer, "balance", ctx.ReadInt(customer, "balance", 0)-amount)
	ctx.WriteInt(customer, "ytd_payment", ctx.ReadInt(customer, "ytd_payment", 0)+amount)
	ctx.WriteInt(customer, "payment_cnt", ctx.ReadInt(customer, "payment_cnt", 0)+1)
	return true
}
