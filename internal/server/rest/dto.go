package rest

import (
	"time"

	"github.com/dmitrijs2005/ordersync/internal/server/models"
	"github.com/dmitrijs2005/ordersync/internal/server/services"
)

const dateLayout = "2006-01-02"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func newTokenResponse(p *services.TokenPair) tokenResponse {
	return tokenResponse{Token: p.AccessToken, RefreshToken: p.RefreshToken}
}

type clientRequest struct {
	LocalID      string `json:"localId"`
	RazaoSocial  string `json:"razaoSocial"`
	NomeFantasia string `json:"nomeFantasia"`
	TipoPessoa   string `json:"tipoPessoa"`
	CPF          string `json:"cpf"`
	CNPJ         string `json:"cnpj"`
	Email        string `json:"email"`
	Contato      string `json:"contato"`
}

func (r clientRequest) input() services.ClientInput {
	return services.ClientInput{
		LocalID:    r.LocalID,
		Name:       r.RazaoSocial,
		TradeName:  r.NomeFantasia,
		PersonType: models.PersonType(r.TipoPessoa),
		CPF:        r.CPF,
		CNPJ:       r.CNPJ,
		Email:      r.Email,
		Contact:    r.Contato,
	}
}

type clientResponse struct {
	ID           int64      `json:"id"`
	LocalID      string     `json:"localId,omitempty"`
	RazaoSocial  string     `json:"razaoSocial"`
	NomeFantasia string     `json:"nomeFantasia,omitempty"`
	TipoPessoa   string     `json:"tipoPessoa"`
	CPF          string     `json:"cpf,omitempty"`
	CNPJ         string     `json:"cnpj,omitempty"`
	Email        string     `json:"email,omitempty"`
	Contato      string     `json:"contato,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
}

func newClientResponse(c *models.Client) clientResponse {
	return clientResponse{
		ID:           c.ID,
		LocalID:      c.LocalID,
		RazaoSocial:  c.Name,
		NomeFantasia: c.TradeName,
		TipoPessoa:   string(c.PersonType),
		CPF:          c.CPF,
		CNPJ:         c.CNPJ,
		Email:        c.Email,
		Contato:      c.Contact,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		DeletedAt:    c.DeletedAt,
	}
}

type orderRequest struct {
	LocalID        string `json:"localId"`
	ClienteID      int64  `json:"clienteId"`
	ClienteLocalID string `json:"clienteLocalId"`
	Data           string `json:"data"`
}

type vehicleRequest struct {
	LocalID             string `json:"localId"`
	OrdemServicoID      int64  `json:"ordemServicoId"`
	OrdemServicoLocalID string `json:"ordemServicoLocalId"`
	Placa               string `json:"placa"`
	Modelo              string `json:"modelo"`
	Cor                 string `json:"cor"`
}

func (r vehicleRequest) input() services.VehicleInput {
	return services.VehicleInput{
		LocalID: r.LocalID,
		Order:   services.ParentRef{ID: r.OrdemServicoID, LocalID: r.OrdemServicoLocalID},
		Plate:   r.Placa,
		Model:   r.Modelo,
		Color:   r.Cor,
	}
}

type partRequest struct {
	LocalID        string        `json:"localId"`
	VeiculoID      int64         `json:"veiculoId"`
	VeiculoLocalID string        `json:"veiculoLocalId"`
	TipoPecaID     int64         `json:"tipoPecaId"`
	Valor          *models.Money `json:"valor"`
	ValorCobrado   *models.Money `json:"valorCobrado"`
	Descricao      string        `json:"descricao"`
}

func (r partRequest) input() services.PartInput {
	value := r.Valor
	if value == nil {
		value = r.ValorCobrado
	}
	return services.PartInput{
		LocalID:     r.LocalID,
		Vehicle:     services.ParentRef{ID: r.VeiculoID, LocalID: r.VeiculoLocalID},
		PartTypeID:  r.TipoPecaID,
		Value:       value,
		Description: r.Descricao,
	}
}

type clientSummary struct {
	ID           int64  `json:"id"`
	LocalID      string `json:"localId,omitempty"`
	RazaoSocial  string `json:"razaoSocial"`
	NomeFantasia string `json:"nomeFantasia,omitempty"`
}

type partResponse struct {
	ID         int64        `json:"id"`
	LocalID    string       `json:"localId,omitempty"`
	VeiculoID  int64        `json:"veiculoId"`
	TipoPecaID int64        `json:"tipoPecaId"`
	NomePeca   string       `json:"nomePeca"`
	Valor      models.Money `json:"valor"`
	Descricao  string       `json:"descricao"`
	DeletedAt  *time.Time   `json:"deletedAt,omitempty"`
}

type vehicleResponse struct {
	ID             int64          `json:"id"`
	LocalID        string         `json:"localId,omitempty"`
	OrdemServicoID int64          `json:"ordemServicoId"`
	Placa          string         `json:"placa"`
	Modelo         string         `json:"modelo"`
	Cor            string         `json:"cor"`
	ValorTotal     models.Money   `json:"valorTotal"`
	DeletedAt      *time.Time     `json:"deletedAt,omitempty"`
	Pecas          []partResponse `json:"pecas"`
}

type orderResponse struct {
	ID         int64             `json:"id"`
	LocalID    string            `json:"localId,omitempty"`
	Data       string            `json:"data"`
	ClienteID  int64             `json:"clienteId"`
	Cliente    *clientSummary    `json:"cliente,omitempty"`
	ValorTotal models.Money      `json:"valorTotal"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	DeletedAt  *time.Time        `json:"deletedAt,omitempty"`
	Veiculos   []vehicleResponse `json:"veiculos"`
}

func newOrderResponse(t *models.OrderTree) orderResponse {
	out := orderResponse{
		ID:         t.ID,
		LocalID:    t.LocalID,
		Data:       t.Date.Format(dateLayout),
		ClienteID:  t.ClientID,
		ValorTotal: t.Total,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
		DeletedAt:  t.DeletedAt,
		Veiculos:   make([]vehicleResponse, 0, len(t.Vehicles)),
	}
	if t.Client != nil {
		out.Cliente = &clientSummary{
			ID:           t.Client.ID,
			LocalID:      t.Client.LocalID,
			RazaoSocial:  t.Client.Name,
			NomeFantasia: t.Client.TradeName,
		}
	}

	for _, v := range t.Vehicles {
		vr := vehicleResponse{
			ID:             v.ID,
			LocalID:        v.LocalID,
			OrdemServicoID: v.OrderID,
			Placa:          v.Plate,
			Modelo:         v.Model,
			Cor:            v.Color,
			ValorTotal:     v.Total,
			DeletedAt:      v.DeletedAt,
			Pecas:          make([]partResponse, 0, len(v.Parts)),
		}
		for _, p := range v.Parts {
			vr.Pecas = append(vr.Pecas, partResponse{
				ID:         p.ID,
				LocalID:    p.LocalID,
				VeiculoID:  p.VehicleID,
				TipoPecaID: p.PartTypeID,
				NomePeca:   p.PartTypeName,
				Valor:      p.Value,
				Descricao:  p.Description,
				DeletedAt:  p.DeletedAt,
			})
		}
		out.Veiculos = append(out.Veiculos, vr)
	}

	return out
}

type partTypeRequest struct {
	Nome        string       `json:"nome"`
	ValorPadrao models.Money `json:"valorPadrao"`
}

type partTypeResponse struct {
	ID          int64        `json:"id"`
	Nome        string       `json:"nome"`
	ValorPadrao models.Money `json:"valorPadrao"`
}

func newPartTypeResponse(pt *models.PartType) partTypeResponse {
	return partTypeResponse{ID: pt.ID, Nome: pt.Name, ValorPadrao: pt.DefaultValue}
}

type syncStatusResponse struct {
	ServerTime           time.Time  `json:"serverTime"`
	ClientesUpdatedAtMax *time.Time `json:"clientesUpdatedAtMax"`
	OSUpdatedAtMax       *time.Time `json:"osUpdatedAtMax"`
}

type snapshotResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
