package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/ordersync/internal/server/services"
	"github.com/dmitrijs2005/ordersync/internal/validation"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	v := validation.Violations{}
	v.Required("email", req.Email)
	v.Required("password", req.Password)
	if err := v.Err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	pair, err := s.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTokenResponse(pair))
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.RefreshToken == "" {
		s.writeError(w, r, validation.Field("refreshToken", "is required"))
		return
	}

	pair, err := s.svc.Auth.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTokenResponse(pair))
}

func (s *Server) submitClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, created, err := s.svc.Clients.Submit(r.Context(), req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, statusForWrite(created), newClientResponse(c))
}

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	includeDeleted, since, err := listParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.svc.Clients.List(r.Context(), includeDeleted, since)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]clientResponse, 0, len(list))
	for i := range list {
		out = append(out, newClientResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.svc.Clients.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newClientResponse(c))
}

func (s *Server) deleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.svc.Clients.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) submitOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	in := services.OrderInput{
		LocalID: req.LocalID,
		Client:  services.ParentRef{ID: req.ClienteID, LocalID: req.ClienteLocalID},
	}
	if req.Data != "" {
		d, err := time.Parse(dateLayout, req.Data)
		if err != nil {
			s.writeError(w, r, validation.Field("data", "must be YYYY-MM-DD"))
			return
		}
		in.Date = d
	}

	tree, created, err := s.svc.Orders.SubmitOrder(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, statusForWrite(created), newOrderResponse(tree))
}

func (s *Server) submitVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	tree, created, err := s.svc.Orders.SubmitVehicle(r.Context(), req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, statusForWrite(created), newOrderResponse(tree))
}

func (s *Server) submitPart(w http.ResponseWriter, r *http.Request) {
	var req partRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	tree, created, err := s.svc.Orders.SubmitPart(r.Context(), req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, statusForWrite(created), newOrderResponse(tree))
}

func (s *Server) removePart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tree, err := s.svc.Orders.RemovePart(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderResponse(tree))
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	includeDeleted, _, err := listParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tree, err := s.svc.Orders.Get(r.Context(), id, includeDeleted)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderResponse(tree))
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	includeDeleted, since, err := listParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.svc.Orders.List(r.Context(), includeDeleted, since)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]orderResponse, 0, len(list))
	for _, t := range list {
		out = append(out, newOrderResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// exportSnapshot archives the current order document and returns a
// download link for it.
func (s *Server) exportSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tree, err := s.svc.Orders.Get(r.Context(), id, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := json.Marshal(newOrderResponse(tree))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	snap, err := s.svc.Snapshots.Export(r.Context(), id, body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, snapshotResponse{Key: snap.Key, URL: snap.URL})
}

func (s *Server) listPartTypes(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Catalog.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]partTypeResponse, 0, len(list))
	for i := range list {
		out = append(out, newPartTypeResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createPartType(w http.ResponseWriter, r *http.Request) {
	var req partTypeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	pt, err := s.svc.Catalog.Create(r.Context(), req.Nome, req.ValorPadrao)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPartTypeResponse(pt))
}

func (s *Server) syncStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Sync.Status(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, syncStatusResponse{
		ServerTime:           st.ServerTime,
		ClientesUpdatedAtMax: st.ClientsLastUpdatedAt,
		OSUpdatedAtMax:       st.OrdersLastUpdatedAt,
	})
}
