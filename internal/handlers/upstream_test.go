package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/javajoker/vehicle-gateway/internal/models"
)

// fakeUpstream is an in-memory stand-in for the marketplace REST backend.
type fakeUpstream struct {
	mu           sync.Mutex
	appointments map[string]*models.Appointment
	contracts    map[string]*models.Contract
	history      []models.TransactionRecord
	mutations    []string
	uploaded     []string
	lastCreate   map[string]interface{}
	failList     bool
}

func newFakeUpstream() *fakeUpstream {
	now := time.Now()
	endedRecently := now.Add(-time.Hour)
	endedLongAgo := now.Add(-48 * time.Hour)

	buyer := models.PartyRef{ID: "u-buyer", Name: "Người mua"}
	seller := models.PartyRef{ID: "u-seller", Name: "Người bán"}

	return &fakeUpstream{
		appointments: map[string]*models.Appointment{
			"a1": {
				ID: "a1", Buyer: buyer, Seller: seller,
				Type: models.AppointmentTypeAuction, Status: models.AppointmentStatusPending,
				AuctionEndTime: &endedRecently,
			},
			"a-expired": {
				ID: "a-expired", Buyer: buyer, Seller: seller,
				Type: models.AppointmentTypeAuction, Status: models.AppointmentStatusPending,
				AuctionEndTime: &endedLongAgo,
			},
			"a-done": {
				ID: "a-done", Buyer: buyer, Seller: seller,
				Type: models.AppointmentTypeDeposit, Status: models.AppointmentStatusCompleted,
			},
			"a-fail": {
				ID: "a-fail", Buyer: buyer, Seller: seller,
				Type: models.AppointmentTypeDeposit, Status: models.AppointmentStatusConfirmed,
				BuyerConfirmed: true, SellerConfirmed: true,
			},
		},
		contracts: map[string]*models.Contract{
			"a1": {
				ID: "c1", AppointmentID: "a1", ContractNumber: "HD-001",
				Buyer: buyer, Seller: seller,
				PurchasePrice: decimal.NewFromInt(500_000_000),
				DepositAmount: decimal.NewFromInt(50_000_000),
				Status:        models.ContractStatusSigned,
			},
		},
		history: []models.TransactionRecord{
			{
				ID: "t1", Status: models.TransactionStatusCompleted, Amount: decimal.NewFromInt(300_000_000),
				Listing: &models.Listing{ID: "l1", Title: "Honda City", Price: decimal.NewFromInt(300_000_000), Seller: seller},
				DepositRequest: &models.DepositRequest{
					ID: "d1", Buyer: buyer, Seller: seller, DepositAmount: decimal.NewFromInt(30_000_000),
				},
			},
		},
	}
}

func (f *fakeUpstream) server() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /appointments", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failList {
			writeUpstream(w, http.StatusInternalServerError, map[string]interface{}{"success": false})
			return
		}
		list := make([]*models.Appointment, 0, len(f.appointments))
		for _, id := range []string{"a1", "a-expired", "a-done", "a-fail"} {
			list = append(list, f.appointments[id])
		}
		writeUpstream(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"data":       list,
			"pagination": map[string]int{"page": 1, "limit": 20, "total": len(list), "totalPages": 1},
		})
	})

	mux.HandleFunc("GET /appointments/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		appt, ok := f.appointments[r.PathValue("id")]
		if !ok {
			writeUpstream(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "Appointment not found"})
			return
		}
		writeUpstream(w, http.StatusOK, map[string]interface{}{"success": true, "data": appt})
	})

	mux.HandleFunc("PUT /appointments/{id}/confirm", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.mutations = append(f.mutations, "confirm:"+r.PathValue("id"))
		f.appointments[r.PathValue("id")].BuyerConfirmed = true
		writeUpstream(w, http.StatusOK, map[string]interface{}{"success": true})
	})

	mux.HandleFunc("PUT /appointments/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.mutations = append(f.mutations, "cancel:"+r.PathValue("id"))
		if r.PathValue("id") == "a-fail" {
			writeUpstream(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "Lịch hẹn đã quá hạn hủy"})
			return
		}
		f.appointments[r.PathValue("id")].Status = models.AppointmentStatusCancelled
		writeUpstream(w, http.StatusOK, map[string]interface{}{"success": true})
	})

	mux.HandleFunc("POST /appointments/auction", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		body, _ := io.ReadAll(r.Body)
		f.lastCreate = map[string]interface{}{}
		_ = json.Unmarshal(body, &f.lastCreate)
		f.mutations = append(f.mutations, "create")
		writeUpstream(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"data":    models.Appointment{ID: "new-1", Type: models.AppointmentTypeAuction, Status: models.AppointmentStatusPending},
		})
	})

	mux.HandleFunc("POST /appointments/{id}/pay-remaining", func(w http.ResponseWriter, r *http.Request) {
		writeUpstream(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]string{"paymentUrl": "https://pay.example/vnp?order=" + r.PathValue("id"), "qrCode": "data:image/png;base64,AAAA"},
		})
	})

	mux.HandleFunc("GET /contracts/staff/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		contract, ok := f.contracts[r.PathValue("id")]
		if !ok {
			writeUpstream(w, http.StatusNotFound, map[string]interface{}{"success": false})
			return
		}
		writeUpstream(w, http.StatusOK, map[string]interface{}{"success": true, "data": contract})
	})

	mux.HandleFunc("POST /contracts/staff/{id}/upload-photos", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeUpstream(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": err.Error()})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		f.mutations = append(f.mutations, "upload:"+r.PathValue("id"))
		contract := f.contracts[r.PathValue("id")]
		contract.Photos = nil
		for _, header := range r.MultipartForm.File["photos"] {
			f.uploaded = append(f.uploaded, header.Filename)
			contract.Photos = append(contract.Photos, "https://img.example/"+header.Filename)
		}
		writeUpstream(w, http.StatusOK, map[string]interface{}{"success": true})
	})

	mux.HandleFunc("PUT /contracts/staff/{id}/complete", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.mutations = append(f.mutations, "complete:"+r.PathValue("id"))
		f.contracts[r.PathValue("id")].Status = models.ContractStatusCompleted
		writeUpstream(w, http.StatusOK, map[string]interface{}{"success": true})
	})

	mux.HandleFunc("POST /payments/full-qr", func(w http.ResponseWriter, r *http.Request) {
		writeUpstream(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]string{"paymentUrl": "https://pay.example/vnp?order=full-1", "orderId": "full-1"},
		})
	})

	mux.HandleFunc("GET /transactions/history", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeUpstream(w, http.StatusOK, map[string]interface{}{"success": true, "data": f.history})
	})

	return httptest.NewServer(mux)
}

func (f *fakeUpstream) mutationLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.mutations...)
}

func writeUpstream(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
