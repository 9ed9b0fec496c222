package handlers

import (
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hoopsight/prospects/internal/pipeline"
	"github.com/hoopsight/prospects/internal/services"
	"github.com/hoopsight/prospects/internal/table"
	"github.com/hoopsight/prospects/pkg/utils"
)

type PlayerHandler struct {
	dataset *services.DatasetService
}

func NewPlayerHandler(dataset *services.DatasetService) *PlayerHandler {
	return &PlayerHandler{
		dataset: dataset,
	}
}

// GetPlayers returns the reconciled player rows, with optional filtering
// and sorting.
func (h *PlayerHandler) GetPlayers(c *gin.Context) {
	ds := h.dataset.Current()
	if ds == nil {
		utils.SendUnavailable(c, "Dataset has not been built yet")
		return
	}

	position := c.Query("position")
	search := strings.ToLower(c.Query("search"))
	sortBy := c.DefaultQuery("sortBy", pipeline.ColHighestWS)
	sortOrder := c.DefaultQuery("sortOrder", "desc")

	rows := make([]table.Row, 0, ds.Table.Len())
	for _, r := range ds.Table.Rows() {
		if position != "" && r.Get(pipeline.ColPositionGroup).String() != position {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(r.Get(pipeline.ColPlayer).String()), search) {
			continue
		}
		rows = append(rows, r)
	}

	if ds.Table.HasColumn(sortBy) {
		asc := sortOrder == "asc"
		sort.SliceStable(rows, func(i, j int) bool {
			a, aok := rows[i].Get(sortBy).Float()
			b, bok := rows[j].Get(sortBy).Float()
			if aok && bok {
				if asc {
					return a < b
				}
				return a > b
			}
			if aok != bok {
				return aok
			}
			if asc {
				return rows[i].Get(sortBy).String() < rows[j].Get(sortBy).String()
			}
			return rows[i].Get(sortBy).String() > rows[j].Get(sortBy).String()
		})
	}

	out := make([]map[string]interface{}, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowJSON(ds.Table.Columns(), r))
	}
	utils.SendSuccess(c, out)
}

// GetPlayer returns one reconciled row by exact player name.
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	name := c.Param("name")
	row, ok := h.dataset.Player(name)
	if !ok {
		utils.SendNotFound(c, "Player not found")
		return
	}
	cols := h.dataset.Current().Table.Columns()
	utils.SendSuccess(c, rowJSON(cols, row))
}

// rowJSON flattens a table row for the API: numeric cells become numbers,
// everything else strings.
func rowJSON(cols []string, r table.Row) map[string]interface{} {
	out := make(map[string]interface{}, len(cols))
	for _, col := range cols {
		v := r.Get(col)
		if f, ok := v.Float(); ok {
			out[col] = f
		} else {
			out[col] = v.String()
		}
	}
	return out
}
