package repository

// FamilyLocker serializa la secuencia leer-último-número → calcular →
// insertar por familia de documentos. En PostgreSQL se materializa con un
// advisory lock transaccional sobre el hash del prefijo, de modo que dos
// creaciones concurrentes de la misma familia no obtengan el mismo candidato
// ni pasen las dos la comprobación de duplicados antes de persistir.
type FamilyLocker interface {
	LockFamily(prefix string) error
}
