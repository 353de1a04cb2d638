package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/ordersync/internal/netx"
	"github.com/dmitrijs2005/ordersync/internal/server/models"
)

const (
	firstValue  models.Money = 10000
	retryValue  models.Money = 15000
	updatedMark              = "(UPDATED)"
)

// Result summarizes a successful scenario run.
type Result struct {
	OrderID     int64
	PartID      int64
	PartValue   models.Money
	SnapshotKey string
}

// Scenario submits client, order, vehicle and part P1, then resubmits P1
// with a new value as an offline replica would after a lost response.
type Scenario struct {
	client   *Client
	out      io.Writer
	runID    string
	snapshot bool
}

func NewScenario(c *Client, out io.Writer) *Scenario {
	return &Scenario{client: c, out: out, runID: uuid.NewString()[:8]}
}

// WithSnapshot makes the run also export the order snapshot and check the
// archived document through its presigned URL.
func (s *Scenario) WithSnapshot() *Scenario {
	s.snapshot = true
	return s
}

func (s *Scenario) localID(prefix string) string {
	return prefix + "-" + s.runID
}

func (s *Scenario) step(name string, wantStatus int, status int, err error) error {
	if err != nil {
		fmt.Fprintf(s.out, "FAIL %s: %v\n", name, err)
		return fmt.Errorf("%s: %w", name, err)
	}
	if status != wantStatus {
		fmt.Fprintf(s.out, "FAIL %s: status %d, want %d\n", name, status, wantStatus)
		return fmt.Errorf("%s: status %d, want %d", name, status, wantStatus)
	}
	fmt.Fprintf(s.out, "ok   %s (%d)\n", name, status)
	return nil
}

func (s *Scenario) Run(ctx context.Context) (*Result, error) {
	c := s.client
	clientLocal, orderLocal := s.localID("cli"), s.localID("os")
	vehicleLocal, partLocal := s.localID("veh"), s.localID("P1")

	var types []partTypeView
	status, err := c.do(ctx, http.MethodGet, "/tipos-peca", nil, &types)
	if err := s.step("list part types", http.StatusOK, status, err); err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("part type catalog is empty")
	}

	var cli idView
	status, err = c.do(ctx, http.MethodPost, "/clientes", map[string]any{
		"localId":     clientLocal,
		"razaoSocial": "Cliente Probe " + s.runID,
		"tipoPessoa":  "FISICA",
		"cpf":         "529.982.247-25",
	}, &cli)
	if err := s.step("create client", http.StatusCreated, status, err); err != nil {
		return nil, err
	}

	var order orderView
	status, err = c.do(ctx, http.MethodPost, "/ordens-servico", map[string]any{
		"localId":        orderLocal,
		"clienteLocalId": clientLocal,
	}, &order)
	if err := s.step("create order", http.StatusCreated, status, err); err != nil {
		return nil, err
	}

	status, err = c.do(ctx, http.MethodPost, "/ordens-servico/veiculos", map[string]any{
		"localId":             vehicleLocal,
		"ordemServicoLocalId": orderLocal,
		"placa":               "ABC1D23",
		"modelo":              "Civic",
		"cor":                 "Prata",
	}, nil)
	if err := s.step("add vehicle", http.StatusCreated, status, err); err != nil {
		return nil, err
	}

	part := map[string]any{
		"localId":        partLocal,
		"veiculoLocalId": vehicleLocal,
		"tipoPecaId":     types[0].ID,
		"valor":          firstValue,
		"descricao":      "Peça P1",
	}
	status, err = c.do(ctx, http.MethodPost, "/ordens-servico/pecas", part, nil)
	if err := s.step("add part P1", http.StatusCreated, status, err); err != nil {
		return nil, err
	}

	part["valor"] = retryValue
	part["descricao"] = "Peça P1 " + updatedMark
	status, err = c.do(ctx, http.MethodPost, "/ordens-servico/pecas", part, nil)
	if err := s.step("retry part P1", http.StatusOK, status, err); err != nil {
		return nil, err
	}

	status, err = c.do(ctx, http.MethodGet, fmt.Sprintf("/ordens-servico/%d", order.ID), nil, &order)
	if err := s.step("fetch order", http.StatusOK, status, err); err != nil {
		return nil, err
	}

	p, err := verify(&order, vehicleLocal, partLocal)
	if err != nil {
		fmt.Fprintf(s.out, "FAIL verify: %v\n", err)
		return nil, err
	}
	fmt.Fprintf(s.out, "ok   verify: one %s at %s\n", partLocal, p.Valor)

	res := &Result{OrderID: order.ID, PartID: p.ID, PartValue: p.Valor}
	if s.snapshot {
		if res.SnapshotKey, err = s.checkSnapshot(ctx, order.ID, vehicleLocal, partLocal); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *Scenario) checkSnapshot(ctx context.Context, orderID int64, vehicleLocal, partLocal string) (string, error) {
	var snap struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	status, err := s.client.do(ctx, http.MethodPost, fmt.Sprintf("/ordens-servico/%d/snapshot", orderID), nil, &snap)
	if err := s.step("export snapshot", http.StatusCreated, status, err); err != nil {
		return "", err
	}

	body, err := netx.Download(ctx, s.client.http, snap.URL)
	if err != nil {
		fmt.Fprintf(s.out, "FAIL download snapshot: %v\n", err)
		return "", fmt.Errorf("download snapshot: %w", err)
	}

	var archived orderView
	if err := json.Unmarshal(body, &archived); err != nil {
		return "", fmt.Errorf("decode snapshot: %w", err)
	}
	if _, err := verify(&archived, vehicleLocal, partLocal); err != nil {
		fmt.Fprintf(s.out, "FAIL verify snapshot: %v\n", err)
		return "", fmt.Errorf("snapshot: %w", err)
	}
	fmt.Fprintf(s.out, "ok   snapshot %s\n", snap.Key)
	return snap.Key, nil
}

// verify checks the vehicle holds exactly one part with the local id and
// that it carries the retried values.
func verify(order *orderView, vehicleLocal, partLocal string) (*partView, error) {
	var matches []partView
	found := false
	for _, v := range order.Veiculos {
		if v.LocalID != vehicleLocal {
			continue
		}
		found = true
		for _, p := range v.Pecas {
			if p.LocalID == partLocal {
				matches = append(matches, p)
			}
		}
	}

	switch {
	case !found:
		return nil, fmt.Errorf("vehicle %s missing from order %d", vehicleLocal, order.ID)
	case len(matches) != 1:
		return nil, fmt.Errorf("expected exactly one part %s, found %d", partLocal, len(matches))
	case matches[0].Valor != retryValue:
		return nil, fmt.Errorf("part %s value %s, want %s", partLocal, matches[0].Valor, retryValue)
	case !strings.Contains(matches[0].Descricao, updatedMark):
		return nil, fmt.Errorf("part %s description %q lacks %s", partLocal, matches[0].Descricao, updatedMark)
	}
	return &matches[0], nil
}
