/*
Package session implements session management and persistence orchestration.

It serializes turns of the same conversation, both inside one process
(reference-counted mutexes) and across replicas (an optional distributed
locker), and only writes state back to the store when a turn changed it.
*/
package session
