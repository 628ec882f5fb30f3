package controllers

import (
	"net/http"
	"strings"

	dbpkg "locafesta/db"
	"locafesta/models"

	"github.com/gin-gonic/gin"
)

// GET /api/clientes
func GetClientes(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	query := db.Model(&models.Cliente{})
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + q + "%"
		query = query.Where("nome LIKE ? OR email LIKE ?", like, like)
	}

	var clientes []models.Cliente
	if err := query.Order("nome asc").Limit(500).Find(&clientes).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"clientes": clientes})
}

// GET /api/clientes/:id
func GetClienteByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var cliente models.Cliente
	if err := db.First(&cliente, id).Error; err != nil {
		RespondError(c, "cliente não encontrado", http.StatusNotFound)
		return
	}

	RespondSuccess(c, gin.H{"cliente": cliente})
}

// POST /api/clientes
func CreateCliente(c *gin.Context) {
	var cliente models.Cliente
	if err := c.Bind(&cliente); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if missing := cliente.MissingFields(); missing != "" {
		RespondError(c, missing+" é obrigatório", http.StatusBadRequest)
		return
	}
	if cliente.CPF != "" && !models.IsCpfValid(cliente.CPF) {
		RespondError(c, "cpf inválido", http.StatusBadRequest)
		return
	}
	if cliente.CNPJ != "" && !models.IsCnpjValid(cliente.CNPJ) {
		RespondError(c, "cnpj inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	cliente.ID = 0
	if err := db.Create(&cliente).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondCreated(c, gin.H{"cliente": cliente})
}

// PUT /api/clientes/:id
func UpdateCliente(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var cliente models.Cliente
	if err := db.First(&cliente, id).Error; err != nil {
		RespondError(c, "cliente não encontrado", http.StatusNotFound)
		return
	}

	var in models.Cliente
	if err := c.Bind(&in); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if missing := in.MissingFields(); missing != "" {
		RespondError(c, missing+" é obrigatório", http.StatusBadRequest)
		return
	}

	cliente.Nome = in.Nome
	cliente.Email = in.Email
	cliente.Phone = in.Phone
	cliente.CPF = in.CPF
	cliente.CNPJ = in.CNPJ
	cliente.AddressState = in.AddressState
	cliente.AddressCity = in.AddressCity
	cliente.AddressStreet = in.AddressStreet
	cliente.AddressNumber = in.AddressNumber

	if err := db.Save(&cliente).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"cliente": cliente})
}
