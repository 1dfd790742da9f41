package service

import "github.com/xcgclub/wt-squadron-bot/internal/domain"

// Diff compara dos rosters y arma el ChangeSet de altas, bajas, renombres
// y cambios de puntos.
//
// Un roster nuevo vacío casi siempre es un fetch roto, no un éxodo masivo:
// devolvemos vacío antes que disparar una alarma de "se fueron todos".
//
// El renombre se infiere por igualdad exacta de puntos: alguien que se
// renombra mantiene su total en el instante de la captura y la fuente no
// expone ningún ID estable. Con puntos repetidos la elección es arbitraria;
// ambigüedad asumida.
func Diff(old, new domain.Roster) domain.ChangeSet {
	cs := domain.EmptyChangeSet()
	if len(new.Members) == 0 {
		return cs
	}

	oldMap := old.MemberMap()
	newMap := new.MemberMap()

	// puntos -> nombre, solo de los que APARECIERON: un renombre apunta a
	// un nombre nuevo, nunca a uno que ya estaba
	ptsToNew := make(map[int]string)
	for name, pts := range newMap {
		if _, stayed := oldMap[name]; !stayed {
			ptsToNew[pts] = name
		}
	}

	claimed := make(map[string]bool)
	for name, pts := range oldMap {
		if _, present := newMap[name]; present {
			continue
		}
		if target, ok := ptsToNew[pts]; ok {
			cs.Renamed[name] = domain.Rename{NewName: target, Points: pts}
			claimed[target] = true
		} else {
			cs.Left[name] = pts
		}
	}

	for name, pts := range newMap {
		if oldPts, present := oldMap[name]; present {
			if pts != oldPts {
				cs.PointsChanged[name] = domain.PointDelta{Delta: pts - oldPts, New: pts}
			}
			continue
		}
		if claimed[name] {
			continue
		}
		cs.Joined[name] = pts
		if pts != 0 {
			// recién llegado con puntos: lo contamos como ganancia desde 0
			cs.PointsChanged[name] = domain.PointDelta{Delta: pts, New: pts}
		}
	}

	return cs
}
